package service // 白盒测试：直接访问包内的 generateCode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode_LengthAndCharset(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Len(t, code, codeLength, "推荐码长度应固定")
		for _, ch := range code {
			assert.True(t, strings.ContainsRune(codeCharset, ch), "推荐码只应包含字符集内的字符: %q", ch)
		}
	}
}

func TestGenerateCode_Distinct(t *testing.T) {
	// 生成大量推荐码，验证没有重复。
	// 36^8 的空间下一万个码撞上的概率可以忽略。
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "生成了重复的推荐码: %s", code)
		seen[code] = struct{}{}
	}
}
