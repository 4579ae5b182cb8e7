package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/embedkit/iterslot/internal/host"
	"github.com/embedkit/iterslot/internal/iterproto"
)

// counter is the demo's native type: counts from 1 up to a limit, then
// signals exhaustion.
type counter struct {
	count uint32
	limit uint32
}

// Demo registers a counter type with an in-memory host runtime and drives
// its iterator slots the way the embedder's interpreter loop would,
// printing each yielded value and the terminal exhaustion signal.
func (c *Controller) Demo(ctx context.Context) error {
	var out io.Writer = os.Stdout
	if c.Out != nil {
		out = c.Out
	}

	limit := c.Flags.Limit
	if limit < 0 {
		return fmt.Errorf("limit must be non-negative, got %d", limit)
	}

	rt := host.NewRuntime(host.WithLogger(log.Logger))

	proto := iterproto.New[counter, uint32]("counter").
		BeginSelf().
		AdvanceOption(func(ctx context.Context, self *iterproto.Ref[counter]) (uint32, bool, error) {
			obj := self.Object()
			if obj.count < obj.limit {
				obj.count++
				return obj.count, true, nil
			}
			return 0, false, nil
		})
	if err := proto.Register(rt); err != nil {
		return fmt.Errorf("failed to register counter type: %w", err)
	}

	h, err := rt.NewObject("counter", &counter{limit: uint32(limit)})
	if err != nil {
		return fmt.Errorf("failed to create counter object: %w", err)
	}

	v, produced := rt.CallSlot(ctx, h, host.SlotIter)
	if !produced {
		return fmt.Errorf("begin-iteration failed: %v", rt.TakePending())
	}
	it, ok := host.AsHandle(v)
	if !ok {
		return fmt.Errorf("begin-iteration returned a non-object value")
	}

	for {
		v, produced := rt.CallSlot(ctx, it, host.SlotIterNext)
		if produced {
			fmt.Fprintln(out, host.FromHost(v))
			continue
		}

		exc := rt.TakePending()
		if exc == nil {
			return fmt.Errorf("slot produced no value and set no pending error")
		}
		if !exc.Is(host.ExcStopIteration) {
			return fmt.Errorf("iteration failed: %s", exc.Error())
		}
		fmt.Fprintf(out, "exhausted (payload: %v)\n", host.FromHost(exc.Payload))
		break
	}

	// Exhaustion is idempotent: advancing again re-signals StopIteration.
	if _, produced := rt.CallSlot(ctx, it, host.SlotIterNext); produced {
		return fmt.Errorf("exhausted iterator yielded another value")
	}
	if exc := rt.TakePending(); exc == nil || !exc.Is(host.ExcStopIteration) {
		return fmt.Errorf("exhausted iterator did not re-signal StopIteration")
	}
	fmt.Fprintln(out, "exhausted again (idempotent)")

	return rt.Release(h)
}
