package etl

import "testing"

func TestSourceConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SourceConfig
		wantErr bool
	}{
		{"https", SourceConfig{Name: "gss", URL: "https://example.com/gss.csv", Encoding: "cp1252"}, false},
		{"bare path", SourceConfig{Name: "gss", URL: "./data/gss.csv"}, false},
		{"file url", SourceConfig{Name: "gss", URL: "file:///tmp/gss.csv"}, false},
		{"s3", SourceConfig{Name: "gss", URL: "s3://bucket/gss/2018.csv"}, false},
		{"latin1 alias", SourceConfig{Name: "gss", URL: "gss.csv", Encoding: "latin1"}, false},
		{"missing name", SourceConfig{URL: "gss.csv"}, true},
		{"missing url", SourceConfig{Name: "gss"}, true},
		{"ftp", SourceConfig{Name: "gss", URL: "ftp://example.com/gss.csv"}, true},
		{"s3 without key", SourceConfig{Name: "gss", URL: "s3://bucket"}, true},
		{"unknown encoding", SourceConfig{Name: "gss", URL: "gss.csv", Encoding: "klingon"}, true},
		{"negative timeout", SourceConfig{Name: "gss", URL: "gss.csv", Timeout: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSourceConfig_SetDefaults(t *testing.T) {
	cfg := SourceConfig{Name: "gss", URL: "s3://bucket/gss.csv"}
	cfg.SetDefaults()

	if cfg.Encoding != "utf-8" {
		t.Errorf("Encoding = %q, want utf-8", cfg.Encoding)
	}
	if cfg.Timeout != 60 {
		t.Errorf("Timeout = %d, want 60", cfg.Timeout)
	}
	if cfg.S3.Region != "us-east-1" {
		t.Errorf("Region = %q, want us-east-1", cfg.S3.Region)
	}
}

func TestParseS3URL(t *testing.T) {
	bucket, key, err := parseS3URL("s3://surveys/gss/gss2018.csv")
	if err != nil {
		t.Fatalf("parseS3URL() failed: %v", err)
	}
	if bucket != "surveys" || key != "gss/gss2018.csv" {
		t.Errorf("got bucket=%q key=%q", bucket, key)
	}
}

func TestResultLogConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ResultLogConfig
		wantErr bool
	}{
		{"disabled", ResultLogConfig{}, false},
		{"none", ResultLogConfig{Type: "none"}, false},
		{"redis", ResultLogConfig{Type: "redis", Address: "127.0.0.1:6379", Name: "GSS"}, false},
		{"redis without address", ResultLogConfig{Type: "redis", Name: "GSS"}, true},
		{"redis without name", ResultLogConfig{Type: "redis", Address: "127.0.0.1:6379"}, true},
		{"kafka", ResultLogConfig{Type: "kafka"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
