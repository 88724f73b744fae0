package chain

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(trace *[]string, name string, out Outcome) Middleware {
	return Step(name, func(http.ResponseWriter, *http.Request) Outcome {
		*trace = append(*trace, name)
		return out
	})
}

func recordRecover(trace *[]string, name string, out Outcome) Middleware {
	return Recover(name, func(err error, _ http.ResponseWriter, _ *http.Request) Outcome {
		*trace = append(*trace, name+":"+err.Error())
		return out
	})
}

func TestRun_Sequential(t *testing.T) {
	var trace []string
	c := Chain{record(&trace, "a", Next()), record(&trace, "b", Next()), record(&trace, "c", Next())}

	res := c.Run(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, []string{"a", "b", "c"}, trace)
	assert.False(t, res.Done)
	assert.NoError(t, res.Err)
}

func TestRun_RespondShortCircuits(t *testing.T) {
	var trace []string
	c := Chain{record(&trace, "a", Next()), record(&trace, "b", Respond()), record(&trace, "c", Next())}

	res := c.Run(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, []string{"a", "b"}, trace)
	assert.True(t, res.Done)
}

func TestRun_FailSkipsStepsAndRunsRecovers(t *testing.T) {
	var trace []string
	boom := errors.New("boom")
	c := Chain{
		recordRecover(&trace, "early", Respond()),
		record(&trace, "a", Fail(boom)),
		record(&trace, "skipped", Next()),
		recordRecover(&trace, "r1", Fail(boom)),
		recordRecover(&trace, "r2", Respond()),
		recordRecover(&trace, "r3", Respond()),
	}

	res := c.Run(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, []string{"a", "r1:boom", "r2:boom"}, trace)
	assert.True(t, res.Done)
	assert.NoError(t, res.Err)
}

func TestRun_RecoverNextResumesNormalPath(t *testing.T) {
	var trace []string
	c := Chain{
		record(&trace, "a", Fail(errors.New("x"))),
		recordRecover(&trace, "r", Next()),
		record(&trace, "b", Next()),
	}

	res := c.Run(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, []string{"a", "r:x", "b"}, trace)
	assert.NoError(t, res.Err)
}

func TestRun_UnrecoveredErrorIsReturned(t *testing.T) {
	boom := errors.New("boom")
	res := Chain{Step("a", func(http.ResponseWriter, *http.Request) Outcome { return Fail(boom) })}.
		Run(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.ErrorIs(t, res.Err, boom)
	assert.False(t, res.Done)
}

func TestRun_StartsOnErrorPath(t *testing.T) {
	var trace []string
	c := Chain{record(&trace, "a", Next()), recordRecover(&trace, "r", Respond())}

	res := c.Run(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), errors.New("in"))

	assert.Equal(t, []string{"r:in"}, trace)
	assert.True(t, res.Done)
}

func TestRun_NextWithReplacesWriterAndRequest(t *testing.T) {
	type key struct{}
	rec := httptest.NewRecorder()
	replacement := httptest.NewRecorder()

	var seenW http.ResponseWriter
	var seenValue any
	c := Chain{
		Step("swap", func(_ http.ResponseWriter, r *http.Request) Outcome {
			return NextWith(replacement, r.WithContext(context.WithValue(r.Context(), key{}, "v")))
		}),
		Step("keep", func(http.ResponseWriter, *http.Request) Outcome { return NextWith(nil, nil) }),
		Step("observe", func(w http.ResponseWriter, r *http.Request) Outcome {
			seenW, seenValue = w, r.Context().Value(key{})
			return Respond()
		}),
	}

	res := c.Run(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Same(t, replacement, seenW)
	assert.Equal(t, "v", seenValue)
	assert.Same(t, replacement, res.W)
}

func TestRun_PanicBecomesFailure(t *testing.T) {
	var got error
	c := Chain{
		Step("explode", func(http.ResponseWriter, *http.Request) Outcome { panic("kaboom") }),
		Recover("catch", func(err error, _ http.ResponseWriter, _ *http.Request) Outcome {
			got = err
			return Respond()
		}),
	}

	res := c.Run(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)

	require.Error(t, got)
	assert.True(t, res.Done)
	assert.ErrorIs(t, got, ErrPanic)
	assert.Contains(t, got.Error(), "kaboom")
	assert.Contains(t, got.Error(), "explode")

	var st interface{ StackTrace() pkgerrors.StackTrace }
	assert.True(t, errors.As(got, &st), "panic failures carry a stack trace")
}

func TestRun_PanicWithErrorIsWrapped(t *testing.T) {
	boom := errors.New("boom")
	res := Chain{Step("p", func(http.ResponseWriter, *http.Request) Outcome { panic(boom) })}.
		Run(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.ErrorIs(t, res.Err, boom)
	assert.ErrorIs(t, res.Err, ErrPanic)
}

func TestRun_PanicInRecoverIsFailure(t *testing.T) {
	res := Chain{
		Step("a", func(http.ResponseWriter, *http.Request) Outcome { return Fail(errors.New("first")) }),
		Recover("r", func(error, http.ResponseWriter, *http.Request) Outcome { panic("second") }),
	}.Run(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.ErrorIs(t, res.Err, ErrPanic)
	assert.Contains(t, res.Err.Error(), "second")
}

func TestRun_AbortHandlerPropagates(t *testing.T) {
	c := Chain{Step("abort", func(http.ResponseWriter, *http.Request) Outcome { panic(http.ErrAbortHandler) })}

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		c.Run(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), nil)
	})
}

func TestFail_NilError(t *testing.T) {
	out := Fail(nil)
	assert.True(t, out.IsFail())
	assert.ErrorIs(t, out.Err(), ErrNilFailure)
}

func TestOutcomePredicates(t *testing.T) {
	assert.True(t, Next().IsNext())
	assert.True(t, Respond().IsRespond())
	assert.False(t, Respond().IsNext())
	assert.NoError(t, Next().Err())
}

func TestNamesAndThen(t *testing.T) {
	base := Chain{Step("a", nil), Step("b", nil)}
	extended := base.Then(Recover("c", nil))

	assert.Equal(t, []string{"a", "b"}, base.Names())
	assert.Equal(t, []string{"a", "b", "c"}, extended.Names())
}

func TestHandler(t *testing.T) {
	boom := errors.New("boom")

	ok := Handler(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
	failing := Handler(func(http.ResponseWriter, *http.Request) error { return boom })

	rec := httptest.NewRecorder()
	assert.True(t, ok(rec, httptest.NewRequest(http.MethodGet, "/", nil)).IsRespond())
	assert.Equal(t, http.StatusNoContent, rec.Code)

	out := failing(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, out.IsFail())
	assert.ErrorIs(t, out.Err(), boom)

	var st interface{ StackTrace() pkgerrors.StackTrace }
	assert.True(t, errors.As(out.Err(), &st))
}
