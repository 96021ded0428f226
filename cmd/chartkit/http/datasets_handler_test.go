package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestDatasetsList(t *testing.T) {
	setUpTestConfig(t)

	req := httptest.NewRequest("GET", "/datasets/", nil)
	rr := httptest.NewRecorder()
	datasetsHandler(rr, req)

	if rr.Code != 200 {
		t.Fatalf("got code %d, body %q", rr.Code, rr.Body.String())
	}

	var infos []datasetInfo
	if err := json.Unmarshal(rr.Body.Bytes(), &infos); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(infos) != 1 || infos[0].Name != "nodes" {
		t.Fatalf("got %+v, want one entry named nodes", infos)
	}
	if infos[0].SizeBytes == 0 || infos[0].Size == "" {
		t.Errorf("expected size metadata, got %+v", infos[0])
	}
}

func TestDatasetsDetails(t *testing.T) {
	setUpTestConfig(t)

	req := httptest.NewRequest("GET", "/datasets/nodes", nil)
	rr := httptest.NewRecorder()
	datasetsHandler(rr, req)

	if rr.Code != 200 {
		t.Fatalf("got code %d, body %q", rr.Code, rr.Body.String())
	}

	var details datasetDetails
	if err := json.Unmarshal(rr.Body.Bytes(), &details); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if details.Name != "nodes" || details.Rows != 7 {
		t.Errorf("got %+v, want nodes with 7 rows", details)
	}
	if len(details.Columns) != 2 {
		t.Errorf("got columns %v, want load and free", details.Columns)
	}
	if details.Start != "2024-01-01 00:00:00" {
		t.Errorf("got start %q", details.Start)
	}
}

func TestDatasetsDetailsNotFound(t *testing.T) {
	setUpTestConfig(t)

	req := httptest.NewRequest("GET", "/datasets/absent", nil)
	rr := httptest.NewRecorder()
	datasetsHandler(rr, req)

	if rr.Code != 404 {
		t.Errorf("got code %d, want 404", rr.Code)
	}
}
