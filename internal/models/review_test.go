package models

import "testing"

func TestReviewValidate(t *testing.T) {
	tests := []struct {
		name    string
		rating  int
		text    string
		wantErr bool
	}{
		{"valid", 4, "works as advertised", false},
		{"minimum rating", 1, "bad", false},
		{"maximum rating", 5, "great", false},
		{"rating too low", 0, "text", true},
		{"rating too high", 6, "text", true},
		{"negative rating", -1, "text", true},
		{"empty text", 3, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Review{Rating: tt.rating, Text: tt.text}
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
