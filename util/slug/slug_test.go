package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Trim Me  ", "trim-me"},
		{"Go 1.25: What's New?", "go-125-whats-new"},
		{"already-slugged_title", "already-slugged_title"},
		{"Two  Spaces", "two--spaces"},
		{"Ünïcode & Symbols!", "ncode--symbols"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.title))
		})
	}
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "post", WithSuffix("post", 1))
	assert.Equal(t, "post-3", WithSuffix("post", 3))
}
