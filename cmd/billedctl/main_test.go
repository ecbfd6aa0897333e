package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/config"
)

func TestExportFilter(t *testing.T) {
	filter, err := exportFilter("accepted", " Employee@Test.tld ")
	require.NoError(t, err)
	require.NotNil(t, filter.Status)
	require.NotNil(t, filter.Email)
	assert.Equal(t, bill.StatusAccepted, *filter.Status)
	assert.Equal(t, "employee@test.tld", *filter.Email)

	filter, err = exportFilter("", "")
	require.NoError(t, err)
	assert.Nil(t, filter.Status)
	assert.Nil(t, filter.Email)

	_, err = exportFilter("archived", "")
	assert.ErrorContains(t, err, "archived")
}

func TestRootCmd_UserCreateRequiresFlags(t *testing.T) {
	cmd := newRootCmd(&config.Config{})
	cmd.SetArgs([]string{"user", "create", "--email", "a@a"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	assert.ErrorContains(t, err, "password")
}

func TestRootCmd_ExportRejectsStatusBeforeConnecting(t *testing.T) {
	cmd := newRootCmd(&config.Config{})
	cmd.SetArgs([]string{"export", "--status", "archived"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	assert.ErrorContains(t, err, `unknown status "archived"`)
}
