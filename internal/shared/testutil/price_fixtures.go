package testutil

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"testing"
)

// SamplePricesCSV is a small daily price file with one missing close, one
// duplicated row, one outlier and one jump. Rows are deliberately out of
// date order.
const SamplePricesCSV = `Date,Open,Close,Volume,Symbol
2024-01-03,10.0,10.2,1100,ABC
2024-01-02,9.8,10.0,1000,ABC
2024-01-04,10.2,,1200,ABC
2024-01-05,10.3,10.4,1150,ABC
2024-01-05,10.3,10.4,1150,ABC
2024-01-08,10.4,10.5,1300,ABC
2024-01-09,10.5,30.0,5000,ABC
2024-01-10,10.6,10.6,1250,ABC
`

// PriceCSV generates a Date/Close/Volume file of n consecutive days with a
// gently rising close
func PriceCSV(n int) string {
	var b strings.Builder
	b.WriteString("Date,Close,Volume\n")
	for i := 0; i < n; i++ {
		day := 1 + i%28
		month := 1 + (i/28)%12
		year := 2024 + i/(28*12)
		fmt.Fprintf(&b, "%04d-%02d-%02d,%.2f,%d\n", year, month, day, 100+float64(i)*0.5, 1000+i*10)
	}
	return b.String()
}

// MultipartUpload builds a multipart body with the file under field "file"
// and the given form values. It returns the body and its content type.
func MultipartUpload(t *testing.T, filename, content string, fields map[string]string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := io.WriteString(part, content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}
