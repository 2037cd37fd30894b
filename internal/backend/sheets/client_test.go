package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"google.golang.org/api/option"

	"todotrack/internal/service"
)

// fakeSheets serves the subset of the Sheets API the client uses.
type fakeSheets struct {
	rows    [][]any
	status  int
	calls   []string
	payload map[string]any
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.payload = nil
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &f.payload)
	}
	w.Header().Set("Content-Type", "application/json")

	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"denied"}}`, f.status)
		return
	}

	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
		values := f.rows
		if strings.HasSuffix(path, "A2:A") {
			values = make([][]any, len(f.rows))
			for i, row := range f.rows {
				values[i] = row[:1]
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"values": values})
	case r.Method == http.MethodGet:
		_, _ = io.WriteString(w, `{"sheets":[{"properties":{"sheetId":0,"title":"Todos"}}]}`)
	default:
		_, _ = io.WriteString(w, `{}`)
	}
}

func newTestClient(t *testing.T, f *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	c, err := NewWithOptions(context.Background(), "sheet-1", "Todos",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	c.newID = func() string { return "gen-1" }
	return c
}

func lastCall(f *fakeSheets) string {
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

func TestFetchTasks_ParsesRows(t *testing.T) {
	f := &fakeSheets{rows: [][]any{
		{"1", "Write tests", "Pending", "2024-08-01", "React, Testing", "2024-07-25"},
		{"", "orphan row"},
		{2, "Ship", "Completed"},
	}}
	c := newTestClient(t, f)

	tasks, err := c.FetchTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if !reflect.DeepEqual(tasks[0].Skills, service.Skills{"React", "Testing"}) {
		t.Errorf("unexpected skills %q", tasks[0].Skills)
	}
	if tasks[1].ID != "2" || tasks[1].Status != service.StatusCompleted {
		t.Errorf("unexpected second task %+v", tasks[1])
	}
	if tasks[1].DueDate != "" {
		t.Errorf("missing cells should be empty, got %q", tasks[1].DueDate)
	}
}

func TestAddTask_AppendsRow(t *testing.T) {
	f := &fakeSheets{}
	c := newTestClient(t, f)

	id, err := c.AddTask(context.Background(), service.NewTask{
		Description:  "Write docs",
		Status:       service.StatusPending,
		Skills:       service.Skills{"Go", "Docs"},
		AssignedDate: "2024-07-25",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "gen-1" {
		t.Errorf("expected generated id, got %q", id)
	}
	if !strings.HasSuffix(lastCall(f), ":append") {
		t.Errorf("expected append call, got %q", lastCall(f))
	}
	values, _ := f.payload["values"].([]any)
	if len(values) != 1 {
		t.Fatalf("expected one row, got %v", f.payload)
	}
	row := values[0].([]any)
	if row[0] != "gen-1" || row[4] != "Go, Docs" || row[3] != "" {
		t.Errorf("unexpected row %v", row)
	}
}

func TestUpdateStatus_WritesStatusCell(t *testing.T) {
	f := &fakeSheets{rows: [][]any{
		{"1", "a", "Pending"},
		{"2", "b", "Pending"},
	}}
	c := newTestClient(t, f)

	if err := c.UpdateStatus(context.Background(), "2", service.StatusCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(lastCall(f), http.MethodPut) || !strings.HasSuffix(lastCall(f), "!C3") {
		t.Errorf("expected PUT to C3, got %q", lastCall(f))
	}
}

func TestUpdateStatus_UnknownID(t *testing.T) {
	f := &fakeSheets{rows: [][]any{{"1", "a", "Pending"}}}
	c := newTestClient(t, f)

	err := c.UpdateStatus(context.Background(), "9", service.StatusCompleted)
	if service.KindOf(err) != service.KindApplication {
		t.Errorf("expected application failure, got %v", err)
	}
}

func TestDeleteTask_DeletesRow(t *testing.T) {
	f := &fakeSheets{rows: [][]any{
		{"1", "a", "Pending"},
		{"2", "b", "Pending"},
	}}
	c := newTestClient(t, f)

	if err := c.DeleteTask(context.Background(), "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(lastCall(f), ":batchUpdate") {
		t.Fatalf("expected batchUpdate, got %q", lastCall(f))
	}
	reqs := f.payload["requests"].([]any)
	rng := reqs[0].(map[string]any)["deleteDimension"].(map[string]any)["range"].(map[string]any)
	if rng["sheetId"] != float64(0) || rng["startIndex"] != float64(1) || rng["endIndex"] != float64(2) {
		t.Errorf("unexpected range %v", rng)
	}
}

func TestSendReminder_Unsupported(t *testing.T) {
	c := newTestClient(t, &fakeSheets{})

	_, err := c.SendReminder(context.Background(), service.ReminderMorning)
	if service.KindOf(err) != service.KindApplication {
		t.Errorf("expected application failure, got %v", err)
	}
}

func TestAPIErrorIsWrapped(t *testing.T) {
	f := &fakeSheets{status: http.StatusUnauthorized}
	c := newTestClient(t, f)

	_, err := c.FetchTasks(context.Background())
	var se *service.SyncError
	if !errors.As(err, &se) {
		t.Fatalf("expected *service.SyncError, got %T (%v)", err, err)
	}
	if !strings.Contains(se.Message, "todotrack login") {
		t.Errorf("expected login hint, got %q", se.Message)
	}
}
