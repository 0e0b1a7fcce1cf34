package platform

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"alphaDash/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c, err := NewClient(Config{
		BaseURL: ts.URL + "/api/v1",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRequiresAbsoluteURL(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for empty base url")
	}
	if _, err := NewClient(Config{BaseURL: "api/v1"}); err == nil {
		t.Fatal("expected error for relative base url")
	}
}

func TestVerifyOTP(t *testing.T) {
	t.Run("wrapped in data", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/v1/auth/otp/verify" {
				t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			var req models.OTPRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if req.Phone != "+919876543210" || req.CollegeID != "IITD" || req.OTP != "123456" {
				t.Fatalf("unexpected payload %+v", req)
			}
			_, _ = w.Write([]byte(`{"success":true,"data":{"user":{"_id":"a1","userName":"Riya"},"tokens":{"accessToken":"acc","refreshToken":"ref"}}}`))
		})

		res, err := c.VerifyOTP(context.Background(), "+919876543210", "IITD", "123456")
		if err != nil {
			t.Fatalf("VerifyOTP: %v", err)
		}
		if res.User.ID != "a1" || res.User.UserName != "Riya" {
			t.Fatalf("unexpected user %+v", res.User)
		}
		if res.Tokens.AccessToken != "acc" || res.Tokens.RefreshToken != "ref" {
			t.Fatalf("unexpected tokens %+v", res.Tokens)
		}
	})

	t.Run("bare body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"user":{"_id":"a2"},"tokens":{"accessToken":"x","refreshToken":"y"}}`))
		})
		res, err := c.VerifyOTP(context.Background(), "p", "c", "o")
		if err != nil {
			t.Fatalf("VerifyOTP: %v", err)
		}
		if res.User.ID != "a2" {
			t.Fatalf("unexpected user %+v", res.User)
		}
	})

	t.Run("missing tokens", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data":{"user":{"_id":"a3"}}}`))
		})
		_, err := c.VerifyOTP(context.Background(), "p", "c", "o")
		if !errors.Is(err, ErrIncompleteLogin) {
			t.Fatalf("expected ErrIncompleteLogin, got %v", err)
		}
	})

	t.Run("rejected code", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"OTP expired"}`))
		})
		_, err := c.VerifyOTP(context.Background(), "p", "c", "o")
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", apiErr.StatusCode)
		}
		if ErrorMessage(err) != "OTP expired" {
			t.Fatalf("unexpected message %q", ErrorMessage(err))
		}
	})
}

func TestSendOTPReturnsDevCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"otp":"4321"}`))
	})
	otp, err := c.SendOTP(context.Background(), "p", "c")
	if err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
	if otp != "4321" {
		t.Fatalf("expected dev otp 4321, got %q", otp)
	}
}

func TestAssignmentsSendsTokenAndStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Fatalf("unexpected authorization %q", got)
		}
		if got := r.URL.Query().Get("status"); got != "assigned" {
			t.Fatalf("unexpected status filter %q", got)
		}
		_, _ = w.Write([]byte(`{"data":[{"_id":"as1","title":"Lab report","status":"assigned","agreedPrice":400}]}`))
	})

	list, err := c.Assignments(context.Background(), "tok", "assigned")
	if err != nil {
		t.Fatalf("Assignments: %v", err)
	}
	if len(list) != 1 || list[0].ID != "as1" || list[0].AgreedPrice != 400 {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestAssignmentTransitionsHitPlatformPaths(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	if err := c.AcceptAssignment(context.Background(), "tok", "as1"); err != nil {
		t.Fatalf("AcceptAssignment: %v", err)
	}
	if err := c.CompleteAssignment(context.Background(), "tok", "as1"); err != nil {
		t.Fatalf("CompleteAssignment: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	want := []string{"/api/v1/alphas/assignments/as1/accept", "/api/v1/alphas/assignments/as1/complete"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, paths)
	}
}

func TestEarningsReadsPaymentsBesideData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"data": {"summary": {"total": 1500, "pending": 300, "withdrawn": 1200}, "completedAssignments": 4, "rating": 4.5},
			"recentPayments": [{"_id":"p1","amount":500,"netAmount":450,"status":"paid","createdAt":"2024-03-01T10:00:00.000Z"}]
		}`))
	})

	report, err := c.Earnings(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Earnings: %v", err)
	}
	if report.Summary.Total != 1500 || report.Summary.Withdrawn != 1200 {
		t.Fatalf("unexpected summary %+v", report.Summary)
	}
	if report.CompletedAssignments != 4 || report.Rating != 4.5 {
		t.Fatalf("unexpected counters %+v", report)
	}
	if len(report.RecentPayments) != 1 || report.RecentPayments[0].NetAmount != 450 {
		t.Fatalf("unexpected payments %+v", report.RecentPayments)
	}
}

func TestPlaceSnackOrderPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/lazypeeps/snack-orders" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req models.SnackOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.VendorID != "v1" || req.TotalAmount != 130 || len(req.Items) != 2 {
			t.Fatalf("unexpected order %+v", req)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"_id":"o1","status":"pending"}}`))
	})

	order, err := c.PlaceSnackOrder(context.Background(), "tok", models.SnackOrderRequest{
		Items: []models.SnackOrderItem{
			{ProductID: "s1", Quantity: 2, Price: 50},
			{ProductID: "s2", Quantity: 1, Price: 30},
		},
		TotalAmount: 130,
		VendorID:    "v1",
	})
	if err != nil {
		t.Fatalf("PlaceSnackOrder: %v", err)
	}
	if order.ID != "o1" || order.Status != "pending" || order.TotalAmount != 130 {
		t.Fatalf("unexpected order %+v", order)
	}
}

func TestUploadAvatarMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("expected PUT, got %s", r.Method)
		}
		file, header, err := r.FormFile("avatar")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		if header.Filename != "me.png" {
			t.Fatalf("unexpected filename %q", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "image/png" {
			t.Fatalf("unexpected part content type %q", ct)
		}
		_, _ = w.Write([]byte(`{"data":{"userAvatar":"https://cdn.example/me.png"}}`))
	})

	url, err := c.UploadAvatar(context.Background(), "tok", AvatarUpload{FileName: "me.png", ContentType: "image/png", Data: []byte("png")})
	if err != nil {
		t.Fatalf("UploadAvatar: %v", err)
	}
	if url != "https://cdn.example/me.png" {
		t.Fatalf("unexpected avatar url %q", url)
	}
}

func TestTransportErrorHasNoStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := ts.URL
	ts.Close()

	c, err := NewClient(Config{BaseURL: base, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.Snacks(context.Background(), "tok")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if StatusCode(err) != 0 {
		t.Fatalf("expected no status for transport error, got %d", StatusCode(err))
	}
}
