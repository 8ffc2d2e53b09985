package audio

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func TestRegistry_OrderAndDedup(t *testing.T) {
	r := NewRegistry()
	r.Register("//upload.wikimedia.org/wikipedia/commons/a.oga", "d1")
	r.Register("//upload.wikimedia.org/wikipedia/commons/b.oga", "d1")
	r.Register("//upload.wikimedia.org/wikipedia/commons/a.oga", "d1") // duplicate
	r.Register("//upload.wikimedia.org/wikipedia/commons/a.oga", "d2") // same ref, other wiki

	want := []Asset{
		{Ref: "//upload.wikimedia.org/wikipedia/commons/a.oga", DictID: "d1"},
		{Ref: "//upload.wikimedia.org/wikipedia/commons/b.oga", DictID: "d1"},
		{Ref: "//upload.wikimedia.org/wikipedia/commons/a.oga", DictID: "d2"},
	}
	if got := r.Assets(); !reflect.DeepEqual(got, want) {
		t.Errorf("Assets() = %v, want %v", got, want)
	}
}

func TestRegistry_ConcurrentRegister(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Register(fmt.Sprintf("ref-%d", j), "d")
			}
		}()
	}
	wg.Wait()

	if got := len(r.Assets()); got != 100 {
		t.Errorf("expected 100 distinct assets, got %d", got)
	}
}
