package pastlife

import (
	"context"
	"fmt"
	"log"

	"pastlife-server/modules/common/fallback"
	"pastlife-server/modules/common/model"
)

// DrawResult - 렌더링에 필요한 결과 (다음 요청 때 버려짐)
type DrawResult struct {
	Name        string                 `json:"name"`
	Profile     model.CharacterProfile `json:"profile"`
	ImagePrompt string                 `json:"imagePrompt"`
	ImageURL    string                 `json:"imageUrl"`
	ShareURL    string                 `json:"shareUrl"`
}

// Service - 검증 → 프로필 → 프롬프트 → 이미지 순서로 뽑기 1회를 진행
type Service struct {
	profiles *ProfileGenerator
	images   *ImageRequester
	shareURL string
}

// NewService - Service 생성
func NewService(profiles *ProfileGenerator, images *ImageRequester, shareURL string) *Service {
	return &Service{
		profiles: profiles,
		images:   images,
		shareURL: shareURL,
	}
}

// Draw - 상태 기계를 따라 요청 1회를 동기적으로 처리
// 실패하면 기계는 Idle로 돌아가고 에러 종류는 ErrorKind로 구분한다
func (s *Service) Draw(ctx context.Context, name string, observers ...Observer) (*DrawResult, error) {
	m := NewMachine(observers...)

	if err := m.Fire(EventSubmit); err != nil {
		return nil, err
	}

	validName, err := ValidateName(name)
	if err != nil {
		log.Printf("⚠️ [PastLife] Rejected name: %v", err)
		return nil, firstErr(err, m.Fire(EventNameRejected))
	}
	if err := m.Fire(EventNameAccepted); err != nil {
		return nil, err
	}

	profile, err := s.profiles.Generate(ctx, validName)
	if err != nil {
		return nil, firstErr(err, m.Fire(EventProfileFailed))
	}
	if err := m.Fire(EventProfileReady); err != nil {
		return nil, err
	}

	prompt := BuildImagePrompt(*profile)
	if err := m.Fire(EventPromptComposed); err != nil {
		return nil, err
	}

	imageURL, err := s.images.Request(ctx, prompt)
	if err != nil {
		return nil, firstErr(err, m.Fire(EventImageFailed))
	}
	if err := m.Fire(EventImageReady); err != nil {
		return nil, err
	}

	log.Printf("🔮 [PastLife] Draw completed for %s", fallback.Truncate(validName, 10))

	return &DrawResult{
		Name:        validName,
		Profile:     *profile,
		ImagePrompt: prompt,
		ImageURL:    imageURL,
		ShareURL:    s.shareURL,
	}, nil
}

// ShareURL - 공유 링크
func (s *Service) ShareURL() string {
	return s.shareURL
}

// firstErr - 도메인 에러를 우선하고, 전이 실패는 함께 남김
func firstErr(domainErr, transitionErr error) error {
	if transitionErr != nil {
		return fmt.Errorf("%w (state machine: %v)", domainErr, transitionErr)
	}
	return domainErr
}
