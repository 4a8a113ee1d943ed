package closer

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Closer обеспечивает потокобезопасное закрытие ресурсов приложения в порядке LIFO.
type Closer struct {
	mu    sync.Mutex
	once  sync.Once
	funcs []Func
	names []string
}

// Func — сигнатура функции закрытия ресурса.
type Func func(ctx context.Context) error

func New() *Closer {
	return &Closer{}
}

// Add регистрирует функцию закрытия ресурса под указанным именем.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, f)
	c.names = append(c.names, name)
}

// Close последовательно закрывает все зарегистрированные ресурсы (LIFO).
// При отмене контекста оставшиеся ресурсы не закрываются, ошибка фиксируется.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		funcs, names := c.funcs, c.names
		c.mu.Unlock()

		var errs []string
		for i := len(funcs) - 1; i >= 0; i-- {
			done := make(chan error, 1)
			go func(f Func) {
				done <- f(ctx)
			}(funcs[i])

			select {
			case closeErr := <-done:
				if closeErr != nil {
					errs = append(errs, fmt.Sprintf("%s: %v", names[i], closeErr))
				}
			case <-ctx.Done():
				errs = append(errs, fmt.Sprintf("shutdown interrupted, %d resource(s) not closed", i+1))
				err = fmt.Errorf("close: %s", strings.Join(errs, "; "))
				return
			}
		}

		if len(errs) > 0 {
			err = fmt.Errorf("close: %s", strings.Join(errs, "; "))
		}
	})

	return err
}
