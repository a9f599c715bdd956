package entity_test

import (
	"strings"
	"testing"

	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

var testDriveKey = strings.Repeat("ab", 32)

func TestSiteInput_SiteTitle(t *testing.T) {
	tests := []struct {
		name     string
		in       entity.SiteInput
		expected string
	}{
		{"plain host", entity.SiteInput{URL: "https://example.com/a"}, "example.com"},
		{"host with port", entity.SiteInput{URL: "http://localhost:8080/"}, "localhost:8080"},
		{"drive key shortened", entity.SiteInput{URL: "hyper://" + testDriveKey + "/"}, "ababab..ab"},
		{"drive version stripped", entity.SiteInput{URL: "hyper://" + testDriveKey + "+12/"}, "ababab..ab"},
		{"internal page", entity.SiteInput{URL: "tabshell://history/"}, "Tabshell History"},
		{"unknown internal page", entity.SiteInput{URL: "tabshell://nope/"}, "Tabshell"},
		{
			"system drive",
			entity.SiteInput{URL: "hyper://x/", Drive: &entity.DriveInfo{Ident: entity.DriveIdent{System: true}}},
			"My System Drive",
		},
		{
			"writable drive uses title",
			entity.SiteInput{URL: "hyper://x/", Drive: &entity.DriveInfo{Writable: true, Title: "My Site"}},
			"My Site",
		},
		{
			"read-only drive uses host",
			entity.SiteInput{URL: "hyper://x/", Drive: &entity.DriveInfo{Title: "Their Site"}},
			"x",
		},
		{"invalid url", entity.SiteInput{URL: "not a url"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.in.SiteTitle())
		})
	}
}

func TestSiteInput_SiteTrust(t *testing.T) {
	insecure := &entity.LoadError{IsInsecureResponse: true, ErrorCode: -102}
	tests := []struct {
		name     string
		in       entity.SiteInput
		expected entity.SiteTrust
	}{
		{"https", entity.SiteInput{URL: "https://example.com/"}, entity.SiteTrusted},
		{"https insecure", entity.SiteInput{URL: "https://example.com/", LoadError: insecure}, entity.SiteUntrusted},
		{"http", entity.SiteInput{URL: "http://example.com/"}, entity.SiteUntrusted},
		{"internal", entity.SiteInput{URL: "tabshell://settings/"}, entity.SiteTrusted},
		{"drive without info", entity.SiteInput{URL: "hyper://x/"}, entity.SiteNoTrust},
		{
			"writable drive",
			entity.SiteInput{URL: "hyper://x/", Drive: &entity.DriveInfo{Writable: true}},
			entity.SiteTrusted,
		},
		{
			"contact drive",
			entity.SiteInput{URL: "hyper://x/", Drive: &entity.DriveInfo{Ident: entity.DriveIdent{Contact: true}}},
			entity.SiteTrusted,
		},
		{"about blank", entity.SiteInput{URL: "about:blank"}, entity.SiteNoTrust},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.in.SiteTrust())
		})
	}
}

func TestSiteInput_SiteIcon(t *testing.T) {
	assert.Equal(t, entity.SiteIconChecked, entity.SiteInput{URL: "https://example.com/"}.SiteIcon())
	assert.Equal(t, entity.SiteIconInfo, entity.SiteInput{
		URL:       "https://example.com/",
		LoadError: &entity.LoadError{IsInsecureResponse: true},
	}.SiteIcon())
	assert.Equal(t, entity.SiteIconShell, entity.SiteInput{URL: "tabshell://history/"}.SiteIcon())
	assert.Equal(t, entity.SiteIconUser, entity.SiteInput{
		URL:   "hyper://x/",
		Drive: &entity.DriveInfo{Ident: entity.DriveIdent{Profile: true}},
	}.SiteIcon())
	assert.Equal(t, entity.SiteIconInfo, entity.SiteInput{URL: "http://example.com/"}.SiteIcon())
}

func TestSiteInput_SiteSubtitle(t *testing.T) {
	in := entity.SiteInput{
		URL:   "hyper://" + testDriveKey + "+7/index.html",
		Drive: &entity.DriveInfo{ForkOfLabel: "dev"},
	}
	assert.Equal(t, "dev v7", in.SiteSubtitle())
	assert.Empty(t, entity.SiteInput{URL: "https://example.com/"}.SiteSubtitle())
}

func TestPageTitle(t *testing.T) {
	drive := &entity.DriveInfo{Title: "Drive Title"}
	assert.Equal(t, "Page", entity.PageTitle("Page", "hyper://x/", drive))
	assert.Equal(t, "Drive Title", entity.PageTitle("", "hyper://x/", drive))
	assert.Equal(t, "Drive Title", entity.PageTitle("hyper://x/index.html", "hyper://x/", drive))
	assert.Equal(t, "", entity.PageTitle("", "https://example.com/", nil))
}

func TestOrigin(t *testing.T) {
	assert.Equal(t, "https://example.com/", entity.Origin("https://example.com/a/b?c"))
	assert.Equal(t, "http://localhost:3000/", entity.Origin("http://localhost:3000/x"))
	assert.Equal(t, "", entity.Origin("example"))
}
