package utils

import (
	"runtime"
	"strings"
)

// GetStack panic 时的栈信息，去掉 runtime.Stack 与自身两帧
func GetStack() string {
	var buf [4096]byte
	n := runtime.Stack(buf[:], false)
	lines := strings.Split(string(buf[:n]), "\n")
	if len(lines) > 2 {
		return strings.Join(lines[2:], "\n")
	}
	return string(buf[:n])
}
