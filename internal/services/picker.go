package services

import (
	"math/rand/v2"
	"sync"
	"time"
)

// picker chooses pool entries uniformly at random.
type picker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newPicker() *picker {
	seed := uint64(time.Now().UnixNano())
	return &picker{rnd: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

func (p *picker) seed(a, b uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rnd = rand.New(rand.NewPCG(a, b))
}

func (p *picker) pick(pool []string) (string, bool) {
	if len(pool) == 0 {
		return "", false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return pool[p.rnd.IntN(len(pool))], true
}
