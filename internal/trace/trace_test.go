package trace

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

func filled(n int) *Log {
	l := New(0)
	for i := 0; i < n; i++ {
		l.Log(fmt.Sprint(i))
	}
	return l
}

func TestLogFollowsEnd(t *testing.T) {
	l := New(0)
	l.Log("LD", "V0,", "#01")
	l.Logln("halted")

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 3, l.Pos())

	if diff := cmp.Diff([]string{"LD V0, #01", "", "halted"}, l.Window(10)); diff != "" {
		t.Errorf("window: (-want, +got)\n%s", diff)
	}
}

func TestLogScrolling(t *testing.T) {
	l := filled(10)

	assert.Equal(t, []string{"7", "8", "9"}, l.Window(3))

	l.ScrollUp()
	l.ScrollUp()
	assert.Equal(t, []string{"5", "6", "7"}, l.Window(3))

	// new lines do not move a scrolled back window
	l.Log("10")
	assert.Equal(t, []string{"5", "6", "7"}, l.Window(3))

	l.Home()
	assert.Equal(t, 0, l.Pos())
	assert.Equal(t, []string{"0", "1", "2"}, l.Window(3))

	l.ScrollUp()
	assert.Equal(t, 0, l.Pos())

	// scrolling down from the top jumps past the first full window
	l.ScrollDown(3)
	assert.Equal(t, 4, l.Pos())
	assert.Equal(t, []string{"1", "2", "3"}, l.Window(3))

	l.End()
	assert.Equal(t, 11, l.Pos())
	l.ScrollDown(3)
	assert.Equal(t, 11, l.Pos())

	// once back at the end, new lines are followed again
	l.Log("11")
	assert.Equal(t, []string{"9", "10", "11"}, l.Window(3))
}

func TestLogCapacity(t *testing.T) {
	l := New(4)
	for i := 0; i < 10; i++ {
		l.Log(fmt.Sprint(i))
	}

	assert.Equal(t, 4, l.Len())
	assert.Equal(t, []string{"6", "7", "8", "9"}, l.Window(4))

	// a scrolled back position moves with the dropped lines
	l.ScrollUp()
	l.ScrollUp()
	l.Log("10")
	assert.Equal(t, 1, l.Pos())
	assert.Equal(t, []string{"7"}, l.Window(4)[:1])
}

func TestLogTail(t *testing.T) {
	l := filled(5)
	l.Home()

	assert.Equal(t, []string{"3", "4"}, l.Tail(2))
	assert.Equal(t, 5, len(l.Tail(100)))

	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0, len(l.Tail(1)))
}
