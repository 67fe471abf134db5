package main

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/owner-console/internal/directory"
)

func newTestClient(t *testing.T, token string) *directory.Client {
	t.Helper()
	srv := httptest.NewServer(newRouter(seed(), "dev-token"))
	t.Cleanup(srv.Close)
	return directory.NewClient(srv.URL+"/api/v1", token, time.Second)
}

func TestDevDirectorySpeaksClientProtocol(t *testing.T) {
	client := newTestClient(t, "dev-token")
	ctx := context.Background()

	require.NoError(t, client.Ping(ctx))

	companies, err := client.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Len(t, companies, 3)

	companyID := int64(2)
	page, err := client.ListEmployees(ctx, directory.ListFilter{CompanyID: &companyID, Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Employees, 1)
	assert.Equal(t, "Nusantara Logistik", page.Employees[0].CompanyName)

	code, err := client.NextEmployeeCode(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "NSL-0003", code)

	created, err := client.CreateEmployee(ctx, directory.EmployeeInput{CompanyID: 2, Code: code, FullName: "Sari Utami", Email: "sari@example.test"})
	require.NoError(t, err)
	assert.Equal(t, "NSL-0003", created.Code)

	in := directory.InputFromEmployee(created)
	in.CompanyID = 3
	updated, err := client.UpdateEmployee(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Sinar Baru Manufaktur", updated.CompanyName)

	_, err = client.CreateEmployee(ctx, directory.EmployeeInput{CompanyID: 1, Code: "ODT-0001", FullName: "Dup"})
	assert.ErrorIs(t, err, directory.ErrDuplicate)

	_, err = client.GetEmployee(ctx, 999)
	assert.ErrorIs(t, err, directory.ErrNotFound)
}

func TestDevDirectorySearch(t *testing.T) {
	client := newTestClient(t, "dev-token")

	page, err := client.ListEmployees(context.Background(), directory.ListFilter{Search: "wijaya"})
	require.NoError(t, err)
	require.Len(t, page.Employees, 1)
	assert.Equal(t, "Rina Wijaya", page.Employees[0].FullName)
}

func TestDevDirectoryRequiresToken(t *testing.T) {
	client := newTestClient(t, "wrong")

	require.NoError(t, client.Ping(context.Background()))
	_, err := client.ListCompanies(context.Background())
	assert.ErrorIs(t, err, directory.ErrUnauthorized)
}
