package xqueue_test

import (
	"fmt"

	"github.com/omeyang/xtp/pkg/util/xqueue"
)

func Example() {
	q := xqueue.New[string]()
	q.Put("a")
	q.Put("b")

	// Close 之后仍可取出已缓冲的元素
	q.Close()

	for {
		v, ok := q.Take()
		if !ok {
			break
		}
		fmt.Println(v)
	}
	// Output:
	// a
	// b
}

func ExampleQueue_Cancel() {
	q := xqueue.New[int]()
	q.Put(1)
	q.Put(2)

	fmt.Println("dropped:", q.Cancel())

	_, ok := q.Take()
	fmt.Println("ok:", ok)
	// Output:
	// dropped: 2
	// ok: false
}
