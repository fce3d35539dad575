// Package prompt assembles the conversation payload for the programmer
// encouragement chatbot: a templated system turn, the caller's chat
// history verbatim, then the prefixed question.
package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/jadenj13/courier/internals/llm"
)

const systemTemplate = "你是一个{{.Role}}。你需要用{{.Style}}的语气回答问题。" +
	"你的目标是帮助程序员保持积极乐观的心态，提供技术建议的同时也要关注他们的心理健康。"

const questionPrefix = "问题: "

const (
	defaultRole     = "程序员鼓励师"
	defaultStyle    = "积极、温暖且专业"
	defaultQuestion = "我的代码一直报错，感觉好沮丧，该怎么办？"
)

var systemTmpl = template.Must(template.New("system").Parse(systemTemplate))

// Vars are the template inputs. Zero-value string fields fall back to
// the defaults; a nil History gets the default two-round conversation,
// while an empty non-nil History means "no history".
type Vars struct {
	Role     string
	Style    string
	Question string
	History  []llm.Message
}

// Default returns the fully-populated default inputs.
func Default() Vars {
	return Vars{
		Role:     defaultRole,
		Style:    defaultStyle,
		Question: defaultQuestion,
		History:  DefaultHistory(),
	}
}

// DefaultHistory is two rounds of warm-up conversation that prime the
// encouraging tone.
func DefaultHistory() []llm.Message {
	return []llm.Message{
		{Role: llm.RoleUser, Content: "你好"},
		{Role: llm.RoleAssistant, Content: "嘿！我是你的程序员鼓励师！记住，每个优秀的程序员都是从 Debug 中成长起来的。有什么我可以帮你的吗？"},
		{Role: llm.RoleUser, Content: "我觉得自己写的代码太烂了"},
		{Role: llm.RoleAssistant, Content: "每个程序员都经历过这个阶段！重要的是你在不断学习和进步。让我们一起看看代码，我相信通过重构和优化，它会变得更好。记住，Rome wasn't built in a day，代码质量是通过持续改进来提升的。"},
	}
}

// Messages renders the ordered conversation: system, history, question.
func Messages(v Vars) ([]llm.Message, error) {
	if v.Role == "" {
		v.Role = defaultRole
	}
	if v.Style == "" {
		v.Style = defaultStyle
	}
	if v.Question == "" {
		v.Question = defaultQuestion
	}
	if v.History == nil {
		v.History = DefaultHistory()
	}

	var system strings.Builder
	if err := systemTmpl.Execute(&system, v); err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}

	out := make([]llm.Message, 0, len(v.History)+2)
	out = append(out, llm.Message{Role: llm.RoleSystem, Content: system.String()})
	out = append(out, v.History...)
	out = append(out, llm.Message{Role: llm.RoleUser, Content: questionPrefix + v.Question})
	return out, nil
}
