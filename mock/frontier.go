package mock

import "github.com/claragordon/crawlspace"

var _ crawlspace.Frontier = (*Frontier)(nil)

// Frontier is a mock implementation of crawlspace.Frontier.
type Frontier struct {
	ClaimFn func(url string) bool
	PushFn  func(task crawlspace.Task) bool
	PopFn   func() (crawlspace.Task, bool)
	LenFn   func() int
	SeenFn  func(url string) bool
}

func (f *Frontier) Claim(url string) bool {
	return f.ClaimFn(url)
}

func (f *Frontier) Push(task crawlspace.Task) bool {
	return f.PushFn(task)
}

func (f *Frontier) Pop() (crawlspace.Task, bool) {
	return f.PopFn()
}

func (f *Frontier) Len() int {
	return f.LenFn()
}

func (f *Frontier) Seen(url string) bool {
	return f.SeenFn(url)
}
