package pastlife

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// MaxNameLength - 이름 입력 최대 글자 수 (rune 기준)
const MaxNameLength = 20

var (
	// ErrEmptyName - 이름이 비어 있음 (외부 호출 없이 경고만 표시)
	ErrEmptyName = errors.New("name is empty")
	// ErrNameTooLong - 이름이 MaxNameLength를 초과함
	ErrNameTooLong = fmt.Errorf("name is longer than %d characters", MaxNameLength)
)

// ParseError - 텍스트 생성 응답을 프로필로 해석할 수 없음
// 필드 누락/null도 같은 종류로 취급한다
type ParseError struct {
	Raw     string   // 서비스가 돌려준 원문
	Missing []string // 누락되었거나 null인 키
	Err     error
}

func (e *ParseError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("profile response is missing fields: %s", strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("profile response is not valid JSON: %v", e.Err)
	}
	return "profile response is not valid JSON"
}

func (e *ParseError) Unwrap() error { return e.Err }

// ServiceError - 텍스트/이미지 생성 서비스 호출 실패 (전송, 인증, 한도, 타임아웃)
type ServiceError struct {
	Service     string // "text" 또는 "image"
	StatusCode  int    // 알 수 있으면 HTTP 상태 코드
	RateLimited bool
	Timeout     bool
	Err         error
}

func (e *ServiceError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("%s generation service timed out: %v", e.Service, e.Err)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s generation service failed (status %d): %v", e.Service, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s generation service failed: %v", e.Service, e.Err)
	}
}

func (e *ServiceError) Unwrap() error { return e.Err }

// 에러 종류 (API 응답 / 웹소켓 이벤트에 그대로 노출)
const (
	KindEmptyInput  = "empty_input"
	KindNameTooLong = "name_too_long"
	KindParse       = "parse_error"
	KindService     = "service_error"
	KindInternal    = "internal"
)

// ErrorKind - 에러를 안정적인 종류 문자열로 변환
func ErrorKind(err error) string {
	var parseErr *ParseError
	var serviceErr *ServiceError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyName):
		return KindEmptyInput
	case errors.Is(err, ErrNameTooLong):
		return KindNameTooLong
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &serviceErr):
		return KindService
	default:
		return KindInternal
	}
}

// UserMessage - 화면에 보여줄 메시지
func UserMessage(err error) string {
	var parseErr *ParseError
	var serviceErr *ServiceError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyName):
		return "이름을 입력해 주세요!"
	case errors.Is(err, ErrNameTooLong):
		return fmt.Sprintf("이름은 %d자 이내로 입력해 주세요!", MaxNameLength)
	case errors.As(err, &parseErr):
		if len(parseErr.Missing) > 0 {
			return "❌ GPT 응답에 필요한 항목이 없습니다: " + strings.Join(parseErr.Missing, ", ")
		}
		return "❌ GPT 응답을 JSON으로 파싱할 수 없습니다."
	case errors.As(err, &serviceErr):
		target := "전생 정보"
		if serviceErr.Service == ServiceImage {
			target = "전생 이미지"
		}
		switch {
		case serviceErr.Timeout:
			return fmt.Sprintf("❌ %s 생성 시간이 초과되었습니다. 잠시 후 다시 시도해 주세요.", target)
		case serviceErr.RateLimited:
			return fmt.Sprintf("❌ 요청이 많아 %s를 생성하지 못했습니다. 잠시 후 다시 시도해 주세요.", target)
		default:
			return fmt.Sprintf("❌ %s를 생성하지 못했습니다. 잠시 후 다시 시도해 주세요.", target)
		}
	default:
		return "❌ 알 수 없는 오류가 발생했습니다."
	}
}

// RawResponse - ParseError면 원문을 돌려줌
func RawResponse(err error) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Raw
	}
	return ""
}

const (
	ServiceText  = "text"
	ServiceImage = "image"
)

// wrapServiceError - 백엔드 에러를 ServiceError로 감싼다
// classify는 백엔드별로 (상태 코드, 한도 초과 여부)를 돌려준다
func wrapServiceError(ctx context.Context, service string, err error, classify func(error) (int, bool)) error {
	if err == nil {
		return nil
	}
	var already *ServiceError
	if errors.As(err, &already) {
		return err
	}

	se := &ServiceError{Service: service, Err: err}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		se.Timeout = true
	}
	if classify != nil {
		se.StatusCode, se.RateLimited = classify(err)
	}
	return se
}
