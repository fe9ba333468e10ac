package storage

import "testing"

func TestExtractPublicID(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantID       string
		wantResource string
	}{
		{
			name:         "versioned image",
			url:          "https://res.cloudinary.com/demo/image/upload/v1712345678/discussify/icons/123-logo.webp",
			wantID:       "discussify/icons/123-logo",
			wantResource: "image",
		},
		{
			name:         "unversioned image",
			url:          "https://res.cloudinary.com/demo/image/upload/discussify/sample.jpg",
			wantID:       "discussify/sample",
			wantResource: "image",
		},
		{
			name:         "raw file keeps extension",
			url:          "https://res.cloudinary.com/demo/raw/upload/v1/discussify/resources/notes.pdf",
			wantID:       "discussify/resources/notes.pdf",
			wantResource: "raw",
		},
		{
			name: "not a cloudinary url",
			url:  "https://example.com/files/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, resource := ExtractPublicID(tt.url)
			if id != tt.wantID || resource != tt.wantResource {
				t.Fatalf("got (%q, %q), want (%q, %q)", id, resource, tt.wantID, tt.wantResource)
			}
		})
	}
}
