package util

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseID 解析路径中的数字 ID
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// Capitalize 只大写首字母，其余保持原样
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// HumanizeTag content_clarity -> Content Clarity
func HumanizeTag(tag string) string {
	parts := strings.Split(tag, "_")
	for i, p := range parts {
		parts[i] = Capitalize(p)
	}
	return strings.Join(parts, " ")
}
