package news

import (
	"testing"

	"burim-estate/internal/models"

	"github.com/stretchr/testify/assert"
)

const wellFormed = `제목: 수원 아파트 전세가 3주 연속 상승
분류: STRONG
연관도: 8

내용:
## 📊 핵심 요약
- 전세가 상승


## 📍 수원 영향 분석
- **단기 영향**: 보합`

func TestParseResponse_WellFormed(t *testing.T) {
	resp := ParseResponse(wellFormed, "원문 제목")

	assert.False(t, resp.Rejected)
	assert.Equal(t, "수원 아파트 전세가 3주 연속 상승", resp.Title)
	assert.Equal(t, models.NewsGradeStrong, resp.Grade)
	assert.Equal(t, 8, resp.Score)
	assert.Equal(t, "## 📊 핵심 요약\n- 전세가 상승\n\n\n## 📍 수원 영향 분석\n- **단기 영향**: 보합", resp.Body)
}

func TestParseResponse_RejectWins(t *testing.T) {
	tests := []string{
		"REJECT: 기준 미달",
		"REJECT",
		"이 기사는 기준 미달입니다",
		"제목: 수원 금리 인하\n분류: WEAK\n연관도: 7\n내용:\n본문\nREJECT",
	}
	for _, raw := range tests {
		resp := ParseResponse(raw, "원문")
		assert.True(t, resp.Rejected, raw)
		assert.Empty(t, resp.Title)
	}
}

func TestParseResponse_Score(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"연관도: 9", 9},
		{"연관도: [7]", 7},
		{"연관도: 10점", 10},
		{"연관도: 높음", 5},
		{"연관도: 0", 5},
		{"연관도: 11", 5},
		{"연관도:", 5},
	}
	for _, tt := range tests {
		resp := ParseResponse("제목: t\n"+tt.line+"\n내용:\nbody", "f")
		assert.Equal(t, tt.want, resp.Score, tt.line)
	}

	resp := ParseResponse("제목: t\n내용:\nbody", "f")
	assert.Equal(t, 5, resp.Score, "missing score line")
}

func TestParseResponse_MissingTitleUsesFallback(t *testing.T) {
	resp := ParseResponse("분류: WEAK\n내용:\n수원에 미치는 영향은 제한적입니다.", "  원문 제목 ")
	assert.Equal(t, "원문 제목", resp.Title)
	assert.Equal(t, models.NewsGradeWeak, resp.Grade)

	resp = ParseResponse("제목:   \n내용:\nbody", "원문 제목")
	assert.Equal(t, "원문 제목", resp.Title, "empty title line")
}

func TestParseResponse_NoBodyMarker(t *testing.T) {
	raw := "제목: 수원 분양 일정\n분류: WEAK\n연관도: 4\n\n## 요약\n- 분양 시작"
	resp := ParseResponse(raw, "f")
	assert.Equal(t, "## 요약\n- 분양 시작", resp.Body)
}

func TestParseResponse_StripsLeakedHeaders(t *testing.T) {
	raw := "내용: 첫 줄\n제목: 반복된 제목\n  분류: STRONG\n둘째 줄\n연관도: 3\n내용:\n셋째 줄"
	resp := ParseResponse(raw, "f")

	assert.Equal(t, "첫 줄\n둘째 줄\n셋째 줄", resp.Body)
	assert.Equal(t, "반복된 제목", resp.Title)
	assert.Equal(t, 3, resp.Score)
}

func TestParseResponse_BracketedValuesAndCRLF(t *testing.T) {
	raw := "제목: [수원 대출 규제 강화]\r\n분류: [weak]\r\n연관도: 6\r\n내용:\r\n본문"
	resp := ParseResponse(raw, "f")

	assert.Equal(t, "수원 대출 규제 강화", resp.Title)
	assert.Equal(t, models.NewsGradeWeak, resp.Grade)
	assert.Equal(t, "본문", resp.Body)
}

func TestParseResponse_UnknownGrade(t *testing.T) {
	resp := ParseResponse("제목: t\n분류: MEDIUM\n내용:\nb", "f")
	assert.Empty(t, resp.Grade)
}

func TestParseResponse_Empty(t *testing.T) {
	resp := ParseResponse("", "원문")
	assert.False(t, resp.Rejected)
	assert.Equal(t, "원문", resp.Title)
	assert.Equal(t, 5, resp.Score)
	assert.Empty(t, resp.Body)
}
