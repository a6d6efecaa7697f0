package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	ts := parseDate("20240501")
	require.NotNil(t, ts)
	require.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *ts)

	require.Nil(t, parseDate(""))
	require.Nil(t, parseDate("2024-05-01"))
	require.Nil(t, parseDate("yesterday"))
}

func TestClampInt(t *testing.T) {
	require.Equal(t, 20, clampInt("", 20, 100))
	require.Equal(t, 20, clampInt("abc", 20, 100))
	require.Equal(t, 20, clampInt("0", 20, 100))
	require.Equal(t, 42, clampInt("42", 20, 100))
	require.Equal(t, 100, clampInt("500", 20, 100))
}
