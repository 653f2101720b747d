package parser

import "regexp"

var (
	// jsonBlockRegex は ```json ... ``` または ``` ... ``` で囲まれた本文をキャプチャします。
	jsonBlockRegex = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*\\S)\\s*```")
)
