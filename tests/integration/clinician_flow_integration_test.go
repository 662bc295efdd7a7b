//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("MENTIS_TEST_BASE_URL"); strings.TrimSpace(v) != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://127.0.0.1:18080"
}

func TestClinicianJourneyIntegration(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	base := baseURL()

	email := fmt.Sprintf("integration_%d@example.com", time.Now().UnixNano())
	license := fmt.Sprintf("MD-%d", time.Now().UnixNano())
	password := "Secret123!"

	var signupResp struct {
		Token  string `json:"token"`
		Doctor struct {
			ID string `json:"id"`
		} `json:"doctor"`
	}
	doPost(t, client, base+"/api/auth/signup", "", map[string]string{
		"full_name":      "Integration Doctor",
		"email":          email,
		"phone":          "+1 555 0199",
		"license_number": license,
		"specialization": "Psychiatry",
		"hospital":       "Integration General",
		"password":       password,
	}, &signupResp)
	if signupResp.Token == "" || signupResp.Doctor.ID == "" {
		t.Fatalf("unexpected signup response: %+v", signupResp)
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	doPost(t, client, base+"/api/auth/signin", "", map[string]string{
		"email":    email,
		"password": password,
	}, &loginResp)
	token := loginResp.Token
	if token == "" {
		t.Fatalf("signin did not return token")
	}

	var patient struct {
		ID string `json:"id"`
	}
	doPost(t, client, base+"/api/patients", token, map[string]any{
		"full_name": "Integration Patient",
		"age":       29,
	}, &patient)
	if patient.ID == "" {
		t.Fatalf("expected patient id in response")
	}

	doPost(t, client, base+"/api/tests/mbti/start", token, map[string]string{
		"patient_id": patient.ID,
	}, nil)

	var link struct {
		URL   string `json:"url"`
		Token string `json:"token"`
	}
	doPost(t, client, base+"/api/tests/mbti/share-link", token, map[string]string{
		"patient_id": patient.ID,
	}, &link)
	if link.Token == "" || !strings.Contains(link.URL, link.Token) {
		t.Fatalf("unexpected share link: %+v", link)
	}

	var catalog struct {
		Questions []struct {
			ID      int `json:"id"`
			Options []struct {
				ID         int `json:"id"`
				AnalyticID int `json:"analytic_id"`
			} `json:"options"`
		} `json:"questions"`
	}
	doGet(t, client, base+"/api/tests/mbti/questions", "", &catalog)
	if len(catalog.Questions) != 12 {
		t.Fatalf("expected 12 questions, got %d", len(catalog.Questions))
	}

	answers := make([]map[string]int, 0, len(catalog.Questions))
	for _, q := range catalog.Questions {
		answers = append(answers, map[string]int{
			"question_id": q.ID,
			"option_id":   q.Options[0].ID,
			"analytic_id": q.Options[0].AnalyticID,
		})
	}
	var result struct {
		MBTI struct {
			PersonalityType string `json:"personality_type"`
		} `json:"mbti"`
	}
	doPost(t, client, base+"/api/tests/mbti/submit", "", map[string]any{
		"token":   link.Token,
		"answers": answers,
	}, &result)
	if len(result.MBTI.PersonalityType) != 4 {
		t.Fatalf("unexpected personality type %q", result.MBTI.PersonalityType)
	}

	var progress struct {
		Status string `json:"status"`
	}
	doGet(t, client, fmt.Sprintf("%s/api/tests/mbti/progress?patient_id=%s", base, patient.ID), token, &progress)
	if progress.Status != "completed" {
		t.Fatalf("progress status %q, want completed", progress.Status)
	}
}

func doPost(t *testing.T, client *http.Client, url, token string, body any, out any) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http post %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(bodyBytes))
	}
	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response from %s: %v", url, err)
		}
	}
}

func doGet(t *testing.T, client *http.Client, url, token string, out any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http get %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(bodyBytes))
	}
	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response from %s: %v", url, err)
		}
	}
}
