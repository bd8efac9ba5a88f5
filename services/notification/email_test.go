package notification

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestBuildPlainMessage(t *testing.T) {
	msg := buildPlainMessage("shop@example.com", "pat@example.com", "Your order", "Hello Pat")

	for _, want := range []string{
		"From: shop@example.com\r\n",
		"To: pat@example.com\r\n",
		"Subject: Your order\r\n",
		"Content-Type: text/plain",
		"Hello Pat",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestBuildMultipartMessage(t *testing.T) {
	att := &Attachment{
		Filename:    "invoice-PB-3F9A2C.txt",
		ContentType: "text/plain",
		Data:        []byte(strings.Repeat("invoice line\n", 20)),
	}
	msg := buildMultipartMessage("shop@example.com", "pat@example.com", "Your order", "Hello Pat", att)

	if !strings.Contains(msg, "multipart/mixed") {
		t.Error("missing multipart content type")
	}
	if !strings.Contains(msg, `filename="invoice-PB-3F9A2C.txt"`) {
		t.Error("missing attachment disposition")
	}

	// The base64 body must round-trip to the original bytes.
	start := strings.Index(msg, "Content-Transfer-Encoding: base64\r\n")
	if start < 0 {
		t.Fatal("missing base64 transfer encoding header")
	}
	section := msg[start:]
	section = section[strings.Index(section, "\r\n\r\n")+4:]
	section = section[:strings.Index(section, "\r\n--")]
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(section, "\r\n", ""))
	if err != nil {
		t.Fatalf("attachment body is not valid base64: %v", err)
	}
	if string(decoded) != string(att.Data) {
		t.Error("attachment bytes did not survive encoding")
	}
}

func TestBuildMultipartMessageDefaultsContentType(t *testing.T) {
	att := &Attachment{Filename: "inv.bin", Data: []byte{1, 2, 3}}
	msg := buildMultipartMessage("a@b.c", "d@e.f", "s", "b", att)

	if !strings.Contains(msg, "Content-Type: application/octet-stream") {
		t.Error("missing fallback content type")
	}
}
