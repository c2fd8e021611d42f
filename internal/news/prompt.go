package news

import (
	"fmt"

	"burim-estate/internal/models"
)

const promptTemplate = `당신은 수원 지역을 담당하는 부동산 시장 애널리스트입니다.
아래 기사를 분석하고 반드시 지정된 형식으로만 답하십시오.

[기사 제목]: %s
[기사 내용]: %s
[지역 구분]: %s

[분류 기준]
1. STRONG: 가격, 거래량, 공급, 세금, 대출, 개발, 금리와 직접 관련된 기사
2. WEAK: 정책이나 시장 변화가 간접적으로 연결되는 기사
3. REJECT: 부동산과 무관한 사회 기사, 가십, 복지 캠페인, 지역 행사

REJECT인 경우 다른 내용 없이 "REJECT: 기준 미달" 한 줄만 출력하십시오.
WEAK인 경우 본문에 "수원에 미치는 영향은 제한적"이라는 점을 명시하십시오.
기사에 없는 수치는 만들어내지 마십시오.
'매교', '세류' 같은 동 이름은 쓰지 말고 '수원'으로 통일하십시오.
각 섹션(##) 사이에는 빈 줄을 두 줄 넣으십시오.

[출력 형식]

제목: 기사의 핵심을 담고 '수원'을 자연스럽게 포함한 제목 (접두어나 대괄호 없이)
분류: STRONG 또는 WEAK
연관도: 1~10 사이의 숫자

내용:
## 📊 핵심 요약
- 정책/이슈 핵심 요약 1줄
- 전국 흐름 변화 1줄
- 수원 지역 영향 1줄


## 🏦 전국 시장 변화
기사에 언급된 수치를 바탕으로 정책, 금리, 공급 변화를 설명


## 📍 수원 영향 분석
- **단기 영향**: 분석
- **중기/장기 영향**: 분석
- **실수요 vs 투자수요**: 관점별 분석


## 👀 현장 체감 코멘트
현장 중개사 시점의 코멘트 한 줄


## 📌 상담 안내
최근 수원 지역 실거래 흐름과 시세 변화가 궁금하시면 언제든 상담하실 수 있습니다.
`

// BuildPrompt renders the generation request for a candidate
func BuildPrompt(item Item, category models.NewsCategory) string {
	summary := item.BestSummary()
	if summary == "" {
		summary = item.Title
	}
	return fmt.Sprintf(promptTemplate, item.Title, summary, category)
}
