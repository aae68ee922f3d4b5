package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "no markup here", "no markup here"},
		{"simple tags", "<p>Hello <b>world</b></p>", "Hello world"},
		{"attributes", `<span class="label" style="color:red">x</span>`, "x"},
		{"unterminated tag", "trailing <span cla", "trailing "},
		{"lone angle", "a < b", "a "},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripTags(tt.in))
		})
	}
}

func TestDecodeEntities(t *testing.T) {
	assert.Equal(t, "Mac & Cheese", DecodeEntities("Mac &amp; Cheese"))
	assert.Equal(t, "Chef's pick", DecodeEntities("Chef&#39;s pick"))
	assert.Equal(t, "<b>", DecodeEntities("&lt;b&gt;"))
}
