package local

import "sync"

type Task func()

// Pool runs submitted tasks on a fixed number of goroutines.
type Pool struct {
	numWorkers int
	tasks      chan Task
	wg         sync.WaitGroup
}

func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &Pool{
		numWorkers: numWorkers,
		tasks:      make(chan Task),
	}
}

func (p *Pool) Size() int {
	return p.numWorkers
}

func (p *Pool) Start() {
	for range p.numWorkers {
		p.wg.Go(func() {
			for task := range p.tasks {
				task()
			}
		})
	}
}

func (p *Pool) Submit(task Task) {
	p.tasks <- task
}

// Close stops accepting tasks and waits for the running ones to finish.
func (p *Pool) Close() {
	close(p.tasks)
	p.wg.Wait()
}
