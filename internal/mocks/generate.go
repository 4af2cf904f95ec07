// Package mocks provides mock implementations for testing the clinic access service.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// auth ports. The mocks are generated using go:generate directives and provide a
// fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	dir := mocks.NewMockRoleDirectory(ctrl)
//	dir.EXPECT().GetByKey(gomock.Any(), "subject-1").Return(record, nil)
package mocks

// Generate mock for RoleDirectory interface from internal/ports.
// This creates MockRoleDirectory with methods:
// GetByKey, FindByEmail, FindByEmailLower, FindByStaffID
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=role_directory_mock.go github.com/clinicore/clinic-access/internal/ports RoleDirectory

// Generate mock for CredentialStore interface from internal/ports.
// This creates MockCredentialStore with methods:
// SignIn, SignOut
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=credential_store_mock.go github.com/clinicore/clinic-access/internal/ports CredentialStore
