package main

import (
	"contactbook/errs"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()
	if closeErr := a.shutdown(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", userMessage(err))
		os.Exit(1)
	}
}

// userMessage prefers the application message over the full error chain.
func userMessage(err error) string {
	var appErr *errs.Error
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	if appErr.Code == errs.EINTERNAL && appErr.Err != nil {
		return fmt.Sprintf("%s (%v)", appErr.Message, appErr.Err)
	}
	return appErr.Message
}
