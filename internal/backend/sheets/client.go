// Package sheets implements service.Service directly on a Google Sheets
// spreadsheet, without the Apps Script web app in between.
//
// The sheet holds one task per row under a header row, in the columns
// id | taskDescription | status | dueDate | skills | assignedDate.
// Skills are stored as a comma-delimited string.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"todotrack/internal/service"
)

const (
	// dataRange covers every task row below the header.
	dataRange = "A2:F"

	// idRange covers the id column below the header.
	idRange = "A2:A"

	// statusColumn is the column letter holding the status.
	statusColumn = "C"

	// firstDataRow is the 1-based sheet row of the first task.
	firstDataRow = 2
)

// Client implements service.Service using the Sheets API.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	sheetName     string
	newID         func() string
}

// New creates a client from an authenticated HTTP client.
func New(ctx context.Context, httpClient *http.Client, spreadsheetID, sheetName string) (*Client, error) {
	return NewWithOptions(ctx, spreadsheetID, sheetName, option.WithHTTPClient(httpClient))
}

// NewWithOptions creates a client with explicit API options (for testing).
func NewWithOptions(ctx context.Context, spreadsheetID, sheetName string, opts ...option.ClientOption) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		newID:         uuid.NewString,
	}, nil
}

// FetchTasks implements service.Service.
func (c *Client) FetchTasks(ctx context.Context) ([]service.Task, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.a1(dataRange)).Context(ctx).Do()
	if err != nil {
		return nil, wrapError(err)
	}

	tasks := make([]service.Task, 0, len(resp.Values))
	for _, row := range resp.Values {
		id := cell(row, 0)
		if id == "" {
			continue
		}
		tasks = append(tasks, service.Task{
			ID:           id,
			Description:  cell(row, 1),
			Status:       service.Status(cell(row, 2)),
			DueDate:      cell(row, 3),
			Skills:       service.SplitSkills(cell(row, 4)),
			AssignedDate: cell(row, 5),
		})
	}
	return tasks, nil
}

// AddTask implements service.Service. The id is generated here since the
// sheet has nothing to issue one.
func (c *Client) AddTask(ctx context.Context, task service.NewTask) (string, error) {
	id := c.newID()
	due := ""
	if task.DueDate != nil {
		due = *task.DueDate
	}
	row := []interface{}{
		id,
		task.Description,
		string(task.Status),
		due,
		strings.Join(task.Skills, ", "),
		task.AssignedDate,
	}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.a1(dataRange), &sheetsapi.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return "", wrapError(err)
	}
	return id, nil
}

// UpdateStatus implements service.Service.
func (c *Client) UpdateStatus(ctx context.Context, id string, status service.Status) error {
	rowNum, err := c.findRow(ctx, id)
	if err != nil {
		return err
	}

	cellRange := c.a1(fmt.Sprintf("%s%d", statusColumn, rowNum))
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, cellRange, &sheetsapi.ValueRange{
		Values: [][]interface{}{{string(status)}},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	return nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	rowNum, err := c.findRow(ctx, id)
	if err != nil {
		return err
	}
	sheetID, err := c.sheetID(ctx)
	if err != nil {
		return err
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			DeleteDimension: &sheetsapi.DeleteDimensionRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(rowNum - 1),
					EndIndex:   int64(rowNum),
					// The first sheet has id 0, which would otherwise be omitted.
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}
	return nil
}

// SendReminder implements service.Service. Sending mail needs the web app.
func (c *Client) SendReminder(ctx context.Context, kind service.ReminderType) (string, error) {
	return "", &service.SyncError{
		Kind:    service.KindApplication,
		Message: "reminder emails need the webapp backend",
	}
}

// findRow returns the 1-based sheet row holding the task id.
func (c *Client) findRow(ctx context.Context, id string) (int, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.a1(idRange)).Context(ctx).Do()
	if err != nil {
		return 0, wrapError(err)
	}
	for i, row := range resp.Values {
		if cell(row, 0) == id {
			return firstDataRow + i, nil
		}
	}
	return 0, &service.SyncError{Kind: service.KindApplication, Message: fmt.Sprintf("Task not found: %s", id)}
}

// sheetID resolves the numeric id of the configured sheet tab.
func (c *Client) sheetID(ctx context.Context) (int64, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, wrapError(err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == c.sheetName {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, &service.SyncError{Kind: service.KindApplication, Message: fmt.Sprintf("Sheet not found: %s", c.sheetName)}
}

// a1 qualifies a cell range with the quoted sheet name.
func (c *Client) a1(cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(c.sheetName, "'", "''"), cells)
}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

// wrapError converts API errors into sync errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &service.SyncError{Kind: service.KindTransport, Message: "request timed out", Err: err}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &service.SyncError{Kind: service.KindTransport, Message: "token expired or revoked (run: todotrack login)", Err: err}
		case http.StatusNotFound:
			return &service.SyncError{Kind: service.KindApplication, Message: "spreadsheet not found", Err: err}
		}
		return &service.SyncError{Kind: service.KindTransport, Message: apiErr.Message, Err: err}
	}

	return &service.SyncError{Kind: service.KindTransport, Err: err}
}
