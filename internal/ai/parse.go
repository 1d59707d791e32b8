package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"snapptale/internal/model"
)

type storyEnvelope struct {
	Story model.Story `json:"story"`
}

// parseStory 解析模型返回的 JSON 故事，容忍 ``` 代码块包裹以及前后多余文字
func parseStory(raw string) (model.Story, error) {
	js := stripCodeFences(raw)

	var env storyEnvelope
	if err := json.Unmarshal([]byte(js), &env); err != nil {
		obj := findFirstJSON(js)
		if obj == "" {
			return nil, fmt.Errorf("decode story: no JSON object in response: %w", err)
		}
		if err2 := json.Unmarshal([]byte(obj), &env); err2 != nil {
			return nil, fmt.Errorf("decode story: %w", err2)
		}
	}

	if len(env.Story) == 0 {
		return nil, ErrEmptyStory
	}

	// 只补缺失的序号，不重排
	for i := range env.Story {
		if env.Story[i].Chapter == 0 {
			env.Story[i].Chapter = i + 1
		}
	}
	return env.Story, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

// findFirstJSON 返回第一个括号配平的 {...}，忽略字符串里的括号
func findFirstJSON(s string) string {
	start, depth := -1, 0
	inString, escaped := false, false
	for i, r := range s {
		if inString {
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}
		switch r {
		case '"':
			if start != -1 {
				inString = true
			}
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start != -1 {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}
