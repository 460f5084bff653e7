package datauri

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	data := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}
	uri := Encode("image/jpeg", data)

	if uri[:23] != "data:image/jpeg;base64," {
		t.Fatalf("unexpected header: %q", uri[:23])
	}

	p, err := Decode(uri)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if p.MIMEType != "image/jpeg" {
		t.Errorf("MIMEType = %q, want image/jpeg", p.MIMEType)
	}
	if !bytes.Equal(p.Data, data) {
		t.Errorf("Data = %v, want %v", p.Data, data)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		wantMIME string
		wantData string
		wantErr  bool
	}{
		{name: "png", uri: "data:image/png;base64,aGVsbG8=", wantMIME: "image/png", wantData: "hello"},
		{name: "missing mime", uri: "data:;base64,aGVsbG8=", wantMIME: "image/jpeg", wantData: "hello"},
		{name: "unpadded", uri: "data:image/png;base64,aGVsbG8", wantMIME: "image/png", wantData: "hello"},
		{name: "not a data uri", uri: "https://example.com/a.jpg", wantErr: true},
		{name: "no comma", uri: "data:image/png;base64", wantErr: true},
		{name: "not base64", uri: "data:text/plain,hello", wantErr: true},
		{name: "garbage", uri: "data:image/png;base64,!!!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(tt.uri)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.MIMEType != tt.wantMIME {
				t.Errorf("MIMEType = %q, want %q", p.MIMEType, tt.wantMIME)
			}
			if string(p.Data) != tt.wantData {
				t.Errorf("Data = %q, want %q", p.Data, tt.wantData)
			}
		})
	}
}

func TestDecode_MalformedSentinel(t *testing.T) {
	_, err := Decode("plain text")
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}
