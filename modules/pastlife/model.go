package pastlife

import "pastlife-server/modules/common/model"

// DrawRequest - POST /api/pastlife/draw 요청
type DrawRequest struct {
	Name string `json:"name"`
}

// DrawResponse - POST /api/pastlife/draw 응답
type DrawResponse struct {
	Success      bool                    `json:"success"`
	Name         string                  `json:"name,omitempty"`
	Profile      *model.CharacterProfile `json:"profile,omitempty"`
	ImagePrompt  string                  `json:"imagePrompt,omitempty"`
	ImageURL     string                  `json:"imageUrl,omitempty"`
	ShareURL     string                  `json:"shareUrl,omitempty"`
	ErrorKind    string                  `json:"errorKind,omitempty"`
	ErrorMessage string                  `json:"errorMessage,omitempty"`
	RawResponse  string                  `json:"rawResponse,omitempty"`
}

// NewDrawResponse - 결과 또는 에러로 응답 구성
func NewDrawResponse(result *DrawResult, err error) DrawResponse {
	if err != nil {
		return DrawResponse{
			Success:      false,
			ErrorKind:    ErrorKind(err),
			ErrorMessage: UserMessage(err),
			RawResponse:  RawResponse(err),
		}
	}
	profile := result.Profile
	return DrawResponse{
		Success:     true,
		Name:        result.Name,
		Profile:     &profile,
		ImagePrompt: result.ImagePrompt,
		ImageURL:    result.ImageURL,
		ShareURL:    result.ShareURL,
	}
}
