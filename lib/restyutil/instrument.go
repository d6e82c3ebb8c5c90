package restyutil

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// InstrumentOutput receives one rendered http exchange per id.
type InstrumentOutput interface {
	Write(id string, contents string)
}

type exchangeIdKey struct{}

type debugDumper struct {
	output  InstrumentOutput
	counter atomic.Uint64
}

// InstrumentDebugOutput dumps every request/response pair going through
// the client to the given output whenever debug logging is enabled.
// A nil output leaves the client untouched.
func InstrumentDebugOutput(client *resty.Client, output InstrumentOutput) {
	if output == nil {
		return
	}

	d := &debugDumper{output: output}
	client.OnBeforeRequest(d.tagRequest)
	client.OnAfterResponse(d.dumpExchange)
	client.OnError(d.logError)
}

func (d *debugDumper) enabled(ctx context.Context) bool {
	return slog.Default().Enabled(ctx, slog.LevelDebug)
}

func (d *debugDumper) tagRequest(_ *resty.Client, req *resty.Request) error {
	ctx := req.Context()
	if !d.enabled(ctx) {
		return nil
	}

	id := fmt.Sprintf("%06d", d.counter.Add(1))
	req.SetContext(context.WithValue(ctx, exchangeIdKey{}, id))
	slog.DebugContext(
		ctx, "start request",
		"method", req.Method,
		"url", req.URL,
		"exchange", id,
	)
	return nil
}

func (d *debugDumper) dumpExchange(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	if !d.enabled(ctx) {
		return nil
	}

	id, ok := ctx.Value(exchangeIdKey{}).(string)
	if !ok {
		return nil
	}
	d.output.Write(id, formatHttpMessage(res))
	slog.DebugContext(
		ctx, "request done",
		"method", res.Request.Method,
		"url", res.Request.URL,
		"status", res.StatusCode(),
		"duration", res.Time(),
		"exchange", id,
	)
	return nil
}

func (d *debugDumper) logError(req *resty.Request, err error) {
	ctx := req.Context()
	id, _ := ctx.Value(exchangeIdKey{}).(string)
	slog.ErrorContext(
		ctx, "request failed",
		"method", req.Method,
		"url", req.URL,
		"err", err,
		"exchange", id,
	)
}
