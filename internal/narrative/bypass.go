package narrative

import (
	"context"
	"fmt"
	"time"
)

// Bypass answers without calling any service, after Delay, so clients can
// be exercised end to end for free.
type Bypass struct {
	Delay time.Duration
}

// BypassReply is the canned reply for name and message.
func BypassReply(name, message string) string {
	return fmt.Sprintf("[MOCK MODE] 我是 %s。这是 bypass 模式下的测试回复。你刚才说了: \"%s\"", name, message)
}

func (b *Bypass) Generate(ctx context.Context, _ string, req Request) (string, error) {
	if b.Delay > 0 {
		t := time.NewTimer(b.Delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return BypassReply(req.Character.Name, req.Message), nil
}
