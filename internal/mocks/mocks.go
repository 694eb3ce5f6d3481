// File: internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/pinlogin/internal/config"
	"github.com/xkilldash9x/pinlogin/pkg/browser"
	"github.com/xkilldash9x/pinlogin/pkg/credentials"
	"github.com/xkilldash9x/pinlogin/pkg/login"
)

// -- Session Mock --

// MockSession mocks login.Session. Safe for the concurrent detector probes.
type MockSession struct {
	mock.Mock
}

var _ login.Session = (*MockSession)(nil)

func (m *MockSession) Navigate(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *MockSession) WaitForSelector(ctx context.Context, selector string, timeout time.Duration) (browser.Element, error) {
	args := m.Called(ctx, selector, timeout)
	return args.Get(0).(browser.Element), args.Error(1)
}

func (m *MockSession) TypeInto(ctx context.Context, el browser.Element, text string) error {
	args := m.Called(ctx, el, text)
	return args.Error(0)
}

func (m *MockSession) Click(ctx context.Context, el browser.Element) error {
	args := m.Called(ctx, el)
	return args.Error(0)
}

func (m *MockSession) WaitForNavigation(ctx context.Context, timeout time.Duration) error {
	args := m.Called(ctx, timeout)
	return args.Error(0)
}

func (m *MockSession) Exists(ctx context.Context, selector string) (bool, error) {
	args := m.Called(ctx, selector)
	return args.Bool(0), args.Error(1)
}

func (m *MockSession) Location(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSession) Cookies(ctx context.Context) ([]*network.Cookie, error) {
	args := m.Called(ctx)
	var cs []*network.Cookie
	if v := args.Get(0); v != nil {
		cs = v.([]*network.Cookie)
	}
	return cs, args.Error(1)
}

func (m *MockSession) Close() error {
	args := m.Called()
	return args.Error(0)
}

// -- Launcher Mock --

// MockLauncher mocks login.Launcher.
type MockLauncher struct {
	mock.Mock
}

var _ login.Launcher = (*MockLauncher)(nil)

func (m *MockLauncher) Open(ctx context.Context, opts *browser.Options) (login.Session, error) {
	args := m.Called(ctx, opts)
	var s login.Session
	if v := args.Get(0); v != nil {
		s = v.(login.Session)
	}
	return s, args.Error(1)
}

// -- Credential Provider Mock --

// MockProvider mocks credentials.Provider.
type MockProvider struct {
	mock.Mock
}

var _ credentials.Provider = (*MockProvider)(nil)

func (m *MockProvider) Credentials(ctx context.Context) (credentials.Credentials, error) {
	args := m.Called(ctx)
	return args.Get(0).(credentials.Credentials), args.Error(1)
}

// -- Config Mock --

// MockConfig mocks config.Interface.
type MockConfig struct {
	mock.Mock
}

var _ config.Interface = (*MockConfig)(nil)

func (m *MockConfig) Logger() config.LoggerConfig {
	args := m.Called()
	return args.Get(0).(config.LoggerConfig)
}

func (m *MockConfig) Browser() config.BrowserConfig {
	args := m.Called()
	return args.Get(0).(config.BrowserConfig)
}

func (m *MockConfig) Login() config.LoginConfig {
	args := m.Called()
	return args.Get(0).(config.LoginConfig)
}

func (m *MockConfig) Credentials() config.CredentialsConfig {
	args := m.Called()
	return args.Get(0).(config.CredentialsConfig)
}

func (m *MockConfig) Output() config.OutputConfig {
	args := m.Called()
	return args.Get(0).(config.OutputConfig)
}
