package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOTPHTML(t *testing.T) {
	body, err := renderOTPHTML(otpTemplateData{
		FullName: "Amina B",
		Intro:    "Use this code to verify your account:",
		OTP:      "1234",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Hi Amina B,")
	assert.Contains(t, body, "1234")
	assert.Contains(t, body, "expires in 10 minutes")
}

func TestRenderOTPHTMLEscapesName(t *testing.T) {
	// 姓名来自用户输入，渲染时必须转义
	body, err := renderOTPHTML(otpTemplateData{
		FullName: `<script>alert("x")</script>`,
		Intro:    "Use this code to verify your account:",
		OTP:      "1234",
	})
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}
