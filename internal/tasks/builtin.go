package tasks

import (
	"context"
	"strconv"
	"strings"
)

// NewBuiltinRegistry returns a registry preloaded with the built-in tasks.
// head and sum parse their argument optimistically and will panic on
// malformed input; that is intentional load for the interception boundary.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	r.Register("echo", echoTask)
	r.Register("reverse", reverseTask)
	r.Register("head", headTask)
	r.Register("sum", sumTask)
	return r
}

func echoTask(_ context.Context, arg string) (string, error) {
	return arg, nil
}

func reverseTask(_ context.Context, arg string) (string, error) {
	runes := []rune(arg)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes), nil
}

// headTask returns the first comma-separated field. An empty argument makes
// the index expression panic.
func headTask(_ context.Context, arg string) (string, error) {
	var fields []string
	for _, f := range strings.Split(arg, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields[0], nil
}

// sumTask adds comma-separated integers. Non-numeric fields panic.
func sumTask(_ context.Context, arg string) (string, error) {
	total := 0
	for _, f := range strings.Split(arg, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			panic(err)
		}
		total += n
	}
	return strconv.Itoa(total), nil
}
