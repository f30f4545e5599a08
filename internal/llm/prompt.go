package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

const feedbackSystemPrompt = `あなたはビジネスコミュニケーションのコーチです。
ユーザーの回答を分析し、良い点と改善点を具体的にフィードバックしてください。
次のJSON形式のみで出力してください:
{
  "summary": "全体の総評",
  "goodPoints": [{"aspect": "観点", "quote": "回答からの引用", "comment": "コメント"}],
  "improvementPoints": [{"aspect": "観点", "original": "元の表現", "improved": "改善例", "reason": "理由"}],
  "encouragement": "励ましの言葉"
}
goodPoints と improvementPoints はそれぞれ1件以上5件以下にしてください。`

const transcriptionPrompt = "この音声を日本語でそのまま文字起こししてください。文字起こし結果のテキストのみを出力してください。"

func questionPrompt(req QuestionRequest) string {
	var b strings.Builder
	b.WriteString(req.Prompt)
	b.WriteString("\n\nシーン: ")
	b.WriteString(req.SceneName)
	b.WriteString("\n\nユーザーの回答:\n---\n")
	b.WriteString(req.UserAnswer)
	b.WriteString("\n---\n")
	return b.String()
}

func feedbackPrompt(req FeedbackRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "シーン: %s\n\n", req.SceneName)
	for i, qa := range req.QAList {
		fmt.Fprintf(&b, "質問%d: %s\n回答%d: %s\n\n", i+1, qa.Question, i+1, qa.Answer)
	}
	b.WriteString("上記の回答について、フィードバックをお願いします。")
	return b.String()
}

// decodeJSON extracts the outermost JSON object from a model reply, tolerating
// markdown code fences and surrounding prose.
func decodeJSON(raw string, v any) error {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return newError(CodeInternal, "response does not contain a JSON object", nil)
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), v); err != nil {
		return newError(CodeInternal, "failed to parse model response", err)
	}
	return nil
}
