package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	assert.Equal(t, "hello world", Text("<b>hello</b> <script>alert(1)</script>world"))
	assert.Equal(t, "A & B", Text("A & B"))
	assert.Equal(t, "first\nsecond", Text("<p>first</p>second"))
	assert.Equal(t, "Квантові обчислення", Text("  Квантові обчислення  "))
}

func TestLine(t *testing.T) {
	assert.Equal(t, "Deep learning for proteins", Line("Deep   learning\nfor <i>proteins</i>"))
	assert.Equal(t, "", Line("<img src=x>"))
}
