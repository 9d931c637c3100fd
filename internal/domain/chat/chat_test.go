package chat

import "testing"

func TestCreateRequest_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := CreateRequest{Title: "support thread"}
		if err := req.Validate(); err != nil {
			t.Errorf("expected valid, got %v", err)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		req := CreateRequest{}
		if err := req.Validate(); err == nil {
			t.Error("expected error for missing title")
		}
	})
}

func TestSendMessageRequest_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req := SendMessageRequest{Content: "hello"}
		if err := req.Validate(); err != nil {
			t.Errorf("expected valid, got %v", err)
		}
	})

	t.Run("missing content", func(t *testing.T) {
		req := SendMessageRequest{}
		if err := req.Validate(); err == nil {
			t.Error("expected error for missing content")
		}
	})
}
