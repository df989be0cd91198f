package worker

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"pastlife-server/modules/common/model"
	"pastlife-server/modules/pastlife"
)

// EnqueueHandler - 비동기 뽑기 요청 접수
type EnqueueHandler struct {
	queue Queue
}

// EnqueueRequest - Enqueue 요청
type EnqueueRequest struct {
	Name      string `json:"name"`
	SessionID string `json:"sessionId"`
}

// EnqueueResponse - Enqueue 응답
type EnqueueResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
	ErrorKind     string `json:"errorKind,omitempty"`
	JobID         string `json:"jobId,omitempty"`
	Queue         string `json:"queue,omitempty"`
	QueuePosition int64  `json:"queuePosition,omitempty"`
}

// NewEnqueueHandler - EnqueueHandler 생성
func NewEnqueueHandler(queue Queue) *EnqueueHandler {
	return &EnqueueHandler{queue: queue}
}

// RegisterRoutes - 라우트 등록
func (h *EnqueueHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/pastlife/enqueue", h.HandleEnqueue).Methods("POST", "OPTIONS")
	log.Println("✅ Enqueue routes registered: /api/pastlife/enqueue")
}

// HandleEnqueue - POST /api/pastlife/enqueue
// 이름 검증까지만 하고 외부 호출은 Worker가 한다
func (h *EnqueueHandler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// OPTIONS 요청 처리
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req EnqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ [Enqueue] Invalid request: %v", err)
		writeJSON(w, http.StatusBadRequest, EnqueueResponse{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, EnqueueResponse{
			Success: false,
			Error:   "sessionId is required",
		})
		return
	}

	name, err := pastlife.ValidateName(req.Name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, EnqueueResponse{
			Success:   false,
			Error:     pastlife.UserMessage(err),
			ErrorKind: pastlife.ErrorKind(err),
		})
		return
	}

	job := model.DrawJob{
		JobID:      uuid.NewString(),
		Name:       name,
		SessionID:  req.SessionID,
		EnqueuedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	queueLen, err := h.queue.Push(ctx, job)
	if err != nil {
		log.Printf("❌ [Enqueue] Push failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, EnqueueResponse{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	log.Printf("✅ [Enqueue] Job %s enqueued successfully (position: %d)", job.JobID, queueLen)

	writeJSON(w, http.StatusAccepted, EnqueueResponse{
		Success:       true,
		Message:       "Job enqueued successfully",
		JobID:         job.JobID,
		Queue:         h.queue.Name(),
		QueuePosition: queueLen,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
