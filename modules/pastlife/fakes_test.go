package pastlife

import (
	"context"
	"sync"
)

// fakeText - 호출 횟수와 마지막 요청을 기록하는 TextGenerator
type fakeText struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	last     TextRequest
}

func (f *fakeText) CompleteText(ctx context.Context, req TextRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

// fakeImages - 호출 횟수와 마지막 요청을 기록하는 ImageGenerator
type fakeImages struct {
	mu    sync.Mutex
	urls  []string
	err   error
	calls int
	last  ImageRequest
}

func (f *fakeImages) GenerateImages(ctx context.Context, req ImageRequest) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return f.urls, nil
}

// blockingText - ctx가 끝날 때까지 기다리는 TextGenerator
type blockingText struct{}

func (blockingText) CompleteText(ctx context.Context, req TextRequest) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

const aliceResponse = `{"시대": "18세기 프랑스", "성별": "여성", "직업": "궁중 화가", "특징": "Holding a paintbrush", "성격 키워드": "섬세함"}`

const aliceImageURL = "https://images.example.com/portrait-alice.png"

func newTestService(text TextGenerator, images ImageGenerator) *Service {
	return NewService(
		NewProfileGenerator(text, "gpt-4o", 1.0, 0),
		NewImageRequester(images, "dall-e-3", 0),
		"https://pastlife.streamlit.app",
	)
}
