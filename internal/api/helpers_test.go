package api

import (
	"context"
	"strconv"
	"testing"
)

func (a *testApp) testContext() context.Context {
	return context.Background()
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
