package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/crossroad-sim/utils/container"
)

func TestListInit(t *testing.T) {
	l := &container.List[int]{}
	assert.Nil(t, l.First())
	assert.Nil(t, l.Last())
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Values())
}

func TestListOperation(t *testing.T) {
	l := &container.List[int]{ID: "test"}

	// test: insert

	// ^, 1, ^
	n1 := container.NewListNode(1)
	l.PushBack(n1)
	// ^, 2, 1, ^
	n2 := container.NewListNode(2)
	l.PushFront(n2)
	// ^, 3, 2, 1, ^
	n3 := container.NewListNode(3)
	n2.InsertBefore(n3)
	// ^, 3, 2, 1, 4, ^
	n4 := container.NewListNode(4)
	n1.InsertAfter(n4)
	assert.Equal(t, 4, l.Len())
	assert.Equal(t, []int{3, 2, 1, 4}, l.Values())

	// test: first last next prev

	n := l.First()
	assert.Equal(t, n3, n)
	n = n.Next()
	assert.Equal(t, n2, n)
	n = n.Next()
	assert.Equal(t, n1, n)
	assert.Equal(t, n, n.Next().Prev())
	assert.Equal(t, n, n.Prev().Next())
	n = n.Next()
	assert.Equal(t, n4, n)
	assert.Equal(t, n4, l.Last())
	assert.Equal(t, l, n4.Parent())

	// test: remove

	// ^, 3, 1, 4, ^
	l.Remove(n2)
	assert.Nil(t, n2.Parent())
	assert.Equal(t, []int{3, 1, 4}, l.Values())
	// ^, 1, 4, ^
	l.Remove(n3)
	assert.Equal(t, n1, l.First())
	assert.Nil(t, n1.Prev())
	// ^, 1, ^
	l.Remove(n4)
	assert.Equal(t, n1, l.Last())
	assert.Equal(t, 1, l.Len())

	// removed node can be pushed again
	l.PushBack(n2)
	assert.Equal(t, []int{1, 2}, l.Values())
}

func TestListRemoveWhileIterating(t *testing.T) {
	l := &container.List[int]{}
	for i := 0; i < 6; i++ {
		l.PushBack(container.NewListNode(i))
	}
	for node := l.First(); node != nil; {
		next := node.Next()
		if node.Value%2 == 0 {
			l.Remove(node)
		}
		node = next
	}
	assert.Equal(t, []int{1, 3, 5}, l.Values())
}

func TestListClear(t *testing.T) {
	l := &container.List[string]{}
	a := container.NewListNode("a")
	l.PushBack(a)
	l.PushBack(container.NewListNode("b"))
	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Nil(t, l.First())
	assert.Nil(t, l.Last())
	assert.Nil(t, a.Parent())

	l.PushBack(a)
	assert.Equal(t, []string{"a"}, l.Values())
}

func TestListPanicsOnForeignNode(t *testing.T) {
	l1 := &container.List[int]{}
	l2 := &container.List[int]{}
	n := container.NewListNode(1)
	l1.PushBack(n)
	assert.Panics(t, func() { l2.Remove(n) })
	assert.Panics(t, func() { l2.PushBack(n) })
}
