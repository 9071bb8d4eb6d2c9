// Package sequence 按名字分配全局唯一的递增整数ID。
// 每次从持久化计数器批量租用一段号段，在进程内逐个发放。
package sequence

import (
	"context"
	"sync"

	"github.com/goodbye-jack/go-right/errs"
	"github.com/goodbye-jack/go-right/log"
	"github.com/goodbye-jack/go-right/utils"
)

// Counter 持久化的原子计数器，IncrBy 返回自增后的值，计数器不存在时从0开始创建
type Counter interface {
	IncrBy(ctx context.Context, name string, delta int64) (int64, error)
}

type lease struct {
	mu   sync.Mutex
	next int64
	end  int64 // 含
}

type Allocator struct {
	counter   Counter
	leaseSize int64

	mu     sync.Mutex
	leases map[string]*lease
}

type Option func(*Allocator)

func WithLeaseSize(n int64) Option {
	return func(a *Allocator) {
		if n > 0 {
			a.leaseSize = n
		}
	}
}

func NewAllocator(counter Counter, opts ...Option) *Allocator {
	a := &Allocator{
		counter:   counter,
		leaseSize: utils.DefaultLeaseSize,
		leases:    map[string]*lease{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Allocator) LeaseSize() int64 {
	return a.leaseSize
}

func (a *Allocator) leaseOf(name string) *lease {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.leases[name]
	if !ok {
		l = &lease{}
		a.leases[name] = l
	}
	return l
}

// Next 取下一个ID，号段用完时恰好做一次 IncrBy(name, L)
func (a *Allocator) Next(ctx context.Context, name string) (int64, error) {
	l := a.leaseOf(name)
	l.mu.Lock()
	defer l.mu.Unlock()
	return a.take(ctx, name, l)
}

// NextN 在一次加锁内连续取 n 个ID
func (a *Allocator) NextN(ctx context.Context, name string, n int) ([]int64, error) {
	if n < 0 {
		return nil, errs.Invalid("negative id count %d", n)
	}
	l := a.leaseOf(name)
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		id, err := a.take(ctx, name, l)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// take 调用方持有 l.mu
func (a *Allocator) take(ctx context.Context, name string, l *lease) (int64, error) {
	if l.next == 0 || l.next > l.end {
		top, err := a.counter.IncrBy(ctx, name, a.leaseSize)
		if err != nil {
			// 号段保持不变
			return 0, errs.Storage(err, "sequence "+name)
		}
		l.next, l.end = top-a.leaseSize+1, top
		log.Debugf("sequence %s leased [%d, %d]", name, l.next, l.end)
	}
	id := l.next
	l.next++
	return id, nil
}
