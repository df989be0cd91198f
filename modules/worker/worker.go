package worker

import (
	"context"
	"log"
	"time"

	"pastlife-server/modules/common/model"
	"pastlife-server/modules/hub"
	"pastlife-server/modules/pastlife"
)

// queueErrorBackoff - Pop 실패 후 다시 시도하기까지 대기
const queueErrorBackoff = 5 * time.Second

// Drawer - 뽑기 1회 실행 (pastlife.Service)
type Drawer interface {
	Draw(ctx context.Context, name string, observers ...pastlife.Observer) (*pastlife.DrawResult, error)
}

// Publisher - 세션으로 진행 이벤트 전달 (hub.Hub)
type Publisher interface {
	Broadcast(sessionID string, ev hub.Event) int
}

// Worker - 대기열에서 요청을 꺼내 순서대로 처리
type Worker struct {
	queue   Queue
	drawer  Drawer
	pub     Publisher
	backoff time.Duration
}

// New - Worker 생성
func New(queue Queue, drawer Drawer, pub Publisher) *Worker {
	return &Worker{
		queue:   queue,
		drawer:  drawer,
		pub:     pub,
		backoff: queueErrorBackoff,
	}
}

// Run - ctx가 끝날 때까지 대기열 감시
func (w *Worker) Run(ctx context.Context) {
	log.Printf("👀 [Worker] Watching queue: %s", w.queue.Name())

	for {
		job, err := w.queue.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("🛑 [Worker] Stopped")
				return
			}
			log.Printf("❌ [Worker] Queue pop error: %v", err)
			select {
			case <-ctx.Done():
				log.Println("🛑 [Worker] Stopped")
				return
			case <-time.After(w.backoff):
			}
			continue
		}

		log.Printf("🎯 [Worker] Received new job: %s", job.JobID)
		w.processJob(ctx, job)
	}
}

// processJob - 뽑기 1회 실행 후 결과 또는 에러를 세션으로 전달
func (w *Worker) processJob(ctx context.Context, job *model.DrawJob) {
	log.Printf("🚀 [Worker] Processing job: %s (session: %s, waited: %s)",
		job.JobID, job.SessionID, time.Since(job.EnqueuedAt).Round(time.Millisecond))

	result, err := w.drawer.Draw(ctx, job.Name, NewProgressObserver(w.pub, job.SessionID, job.JobID))
	if err != nil {
		log.Printf("❌ [Worker] Job %s failed (%s): %v", job.JobID, pastlife.ErrorKind(err), err)
		w.pub.Broadcast(job.SessionID, hub.Event{
			Type:         hub.EventError,
			JobID:        job.JobID,
			State:        model.StatusFailed,
			ErrorKind:    pastlife.ErrorKind(err),
			ErrorMessage: pastlife.UserMessage(err),
			RawResponse:  pastlife.RawResponse(err),
		})
		return
	}

	delivered := w.pub.Broadcast(job.SessionID, hub.Event{
		Type:   hub.EventResult,
		JobID:  job.JobID,
		State:  model.StatusCompleted,
		Result: pastlife.NewDrawResponse(result, nil),
	})
	if delivered == 0 {
		log.Printf("⚠️ [Worker] Job %s completed but no client is listening on session %s", job.JobID, job.SessionID)
		return
	}
	log.Printf("✅ [Worker] Job %s processing completed", job.JobID)
}

// progressObserver - 상태 전이를 웹소켓 state 이벤트로 변환
type progressObserver struct {
	pub       Publisher
	sessionID string
	jobID     string
}

// NewProgressObserver - 세션으로 진행 상태를 보내는 Observer
func NewProgressObserver(pub Publisher, sessionID, jobID string) pastlife.Observer {
	if pub == nil || sessionID == "" {
		return nil
	}
	return &progressObserver{pub: pub, sessionID: sessionID, jobID: jobID}
}

func (o *progressObserver) OnTransition(from, to pastlife.State, ev pastlife.Event) {
	o.pub.Broadcast(o.sessionID, hub.Event{
		Type:  hub.EventState,
		JobID: o.jobID,
		State: to.String(),
		Busy:  to.Busy(),
	})
}
