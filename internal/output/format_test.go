package output_test

import (
	"bytes"
	"testing"

	"taskboard/internal/output"
	"taskboard/internal/service"
	"taskboard/internal/testutil"
)

var seeded = []service.Task{
	{ID: 1, Title: "Task 1", Description: "Description 1", Status: service.StatusTodo},
	{ID: 2, Title: "Task 2", Description: "Description 2", Status: service.StatusInProgress},
	{ID: 3, Title: "Task 3", Description: "Description 3", Status: service.StatusDone},
}

func TestFormatTaskList(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTaskList(&buf, seeded, false)
	testutil.Golden(t, "task_list", buf.Bytes())
}

func TestFormatTaskList_Empty(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTaskList(&buf, nil, false)
	if buf.String() != "no tasks found\n" {
		t.Errorf("expected %q, got %q", "no tasks found\n", buf.String())
	}

	buf.Reset()
	output.FormatTaskList(&buf, nil, true)
	if buf.String() != "" {
		t.Errorf("expected empty output in quiet mode, got %q", buf.String())
	}
}

func TestFormatTask_NormalizesTitle(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTask(&buf, service.Task{ID: 12, Title: "two\nlines", Status: service.StatusTodo})
	output.FormatTask(&buf, service.Task{ID: 13, Title: "   ", Status: service.StatusDone})

	expected := "  12  todo         two lines\n  13  done         (untitled)\n"
	if buf.String() != expected {
		t.Errorf("expected %q, got %q", expected, buf.String())
	}
}

func TestFormatTaskDetail(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTaskDetail(&buf, seeded[1])
	testutil.Golden(t, "task_detail", buf.Bytes())
}
