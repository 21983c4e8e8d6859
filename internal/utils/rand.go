package utils

import (
	"math/rand"
)

const randLetters = "abcdefghijklmnopqrstuvwxyz0123456789"

// RandString 生成指定长度的随机字符串,用于文件名等场景
func RandString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = randLetters[rand.Intn(len(randLetters))]
	}
	return string(b)
}
