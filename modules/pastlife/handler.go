package pastlife

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"pastlife-server/modules/common/fallback"
)

//go:embed templates/index.html
var templateFS embed.FS

// pageData - index.html 렌더링 데이터
type pageData struct {
	Name          string
	MaxNameLength int
	Warning       string
	ErrorMessage  string
	RawResponse   string
	Result        *DrawResult
	ImageSrc      template.URL
}

type Handler struct {
	service *Service
	page    *template.Template
}

// NewHandler - 템플릿 파싱 실패는 시작 시점 에러
func NewHandler(service *Service) (*Handler, error) {
	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &Handler{
		service: service,
		page:    page,
	}, nil
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.HandleIndex).Methods("GET")
	r.HandleFunc("/draw", h.HandleDrawForm).Methods("POST")
	r.HandleFunc("/api/pastlife/draw", h.HandleDraw).Methods("POST", "OPTIONS")
	log.Println("✅ PastLife routes registered: /, /draw, /api/pastlife/draw")
}

// HandleIndex - GET / (Idle 화면)
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, pageData{MaxNameLength: MaxNameLength})
}

// HandleDrawForm - POST /draw
// 폼 제출 한 번이 상태 기계 한 바퀴, 결과 화면 또는 메시지와 함께 Idle 화면을 렌더링
func (h *Handler) HandleDrawForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, pageData{
			MaxNameLength: MaxNameLength,
			ErrorMessage:  "잘못된 요청입니다.",
		})
		return
	}
	name := r.PostFormValue("name")

	result, err := h.service.Draw(r.Context(), name)
	if err != nil {
		data := pageData{Name: name, MaxNameLength: MaxNameLength}
		switch kind := ErrorKind(err); kind {
		case KindEmptyInput, KindNameTooLong:
			data.Warning = UserMessage(err)
		default:
			log.Printf("❌ [PastLife] Draw failed (%s): %v", kind, err)
			data.ErrorMessage = UserMessage(err)
			data.RawResponse = RawResponse(err)
		}
		h.render(w, statusFor(err), data)
		return
	}

	h.render(w, http.StatusOK, pageData{
		MaxNameLength: MaxNameLength,
		Result:        result,
		ImageSrc:      imageSrc(result.ImageURL),
	})
}

// HandleDraw - POST /api/pastlife/draw
func (h *Handler) HandleDraw(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// OPTIONS 요청 처리
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req DrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ [PastLife] Invalid request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(DrawResponse{
			Success:      false,
			ErrorKind:    KindInternal,
			ErrorMessage: "Invalid request format",
		})
		return
	}

	log.Printf("🎨 [PastLife] Processing request: name=%s", fallback.Truncate(req.Name, 10))

	result, err := h.service.Draw(r.Context(), req.Name)
	if err != nil {
		w.WriteHeader(statusFor(err))
		json.NewEncoder(w).Encode(NewDrawResponse(nil, err))
		return
	}

	log.Printf("✅ [PastLife] Response sent for %s", fallback.Truncate(result.Name, 10))
	json.NewEncoder(w).Encode(NewDrawResponse(result, nil))
}

func (h *Handler) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := h.page.Execute(&buf, data); err != nil {
		log.Printf("❌ [PastLife] Template render failed: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// statusFor - 에러 종류별 HTTP 상태 코드
func statusFor(err error) int {
	switch ErrorKind(err) {
	case KindEmptyInput, KindNameTooLong:
		return http.StatusBadRequest
	case KindParse:
		return http.StatusBadGateway
	case KindService:
		var se *ServiceError
		if errors.As(err, &se) && se.Timeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// imageSrc - 이미지 참조는 검증하지 않고 그대로 쓰되 http(s)와 data:image만 src로 허용
func imageSrc(ref string) template.URL {
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "data:image/") {
		return template.URL(ref)
	}
	return ""
}
