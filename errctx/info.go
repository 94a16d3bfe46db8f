package errctx

import (
	"context"
	"net/http"
	"net/url"
)

// info is used internally to store contextual information.
type info struct {
	data    map[string]interface{}
	request *http.Request
}

func newInfo() *info {
	return &info{data: make(map[string]interface{})}
}

func withInfo(ctx context.Context) context.Context {
	if _, ok := infoFromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, infoKey, newInfo())
}

func infoFromContext(ctx context.Context) (*info, bool) {
	i, ok := ctx.Value(infoKey).(*info)
	return i, ok
}

var sensitiveHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
}

var sensitiveFormKeys = map[string]bool{
	"password": true,
}

// safeCloneRequest copies the parts of req that are useful for reporting,
// leaving out credentials, cookies and the body.
func safeCloneRequest(req *http.Request) *http.Request {
	if req == nil {
		return nil
	}

	header := http.Header{}
	for k, v := range req.Header {
		if sensitiveHeaders[k] {
			continue
		}
		header[k] = append([]string(nil), v...)
	}

	return &http.Request{
		Method:     req.Method,
		URL:        safeCloneURL(req.URL),
		Proto:      req.Proto,
		ProtoMajor: req.ProtoMajor,
		ProtoMinor: req.ProtoMinor,
		Header:     header,
		Host:       req.Host,
		Form:       safeCloneForm(req.Form),
		PostForm:   safeCloneForm(req.PostForm),
		RemoteAddr: req.RemoteAddr,
		RequestURI: req.RequestURI,
	}
}

func safeCloneURL(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	// User is dropped.
	return &url.URL{
		Scheme:   u.Scheme,
		Host:     u.Host,
		Path:     u.Path,
		RawPath:  u.RawPath,
		RawQuery: u.RawQuery,
		Fragment: u.Fragment,
	}
}

func safeCloneForm(form url.Values) url.Values {
	if form == nil {
		return nil
	}
	safe := url.Values{}
	for k, v := range form {
		if sensitiveFormKeys[k] {
			continue
		}
		safe[k] = append([]string(nil), v...)
	}
	return safe
}

// key used to store context values from within this package.
type key int

const (
	infoKey key = iota
)
