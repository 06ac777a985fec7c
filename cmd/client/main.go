package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Contact mirrors the wire shape of the API's contact entity.
type Contact struct {
	Id        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Company   *string `json:"company,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// baseURL is taken from the environment so the client can target any
// deployment of the API.
func baseURL() string {
	if url := os.Getenv("API_BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

// main walks one contact through the full lifecycle against a running
// server, checking the status code of every step. It exits non-zero on the
// first unexpected response.
//
// Usage example on the command line:
// > API_BASE_URL=http://localhost:8080 go run ./cmd/client
func main() {
	created := expectContact("POST", "/api/contacts", []byte(`{
		"firstName": "Erika",
		"lastName": "Mustermann",
		"email": "erika@example.com",
		"phone": "+49 0815 471100"
	}`), http.StatusCreated)
	fmt.Printf("created contact %d\n", created.Id)

	expectStatus("GET", "/api/contacts", nil, http.StatusOK)
	fmt.Println("listed contacts")

	path := fmt.Sprintf("/api/contacts/%d", created.Id)
	expectStatus("GET", path, nil, http.StatusOK)
	fmt.Println("fetched contact")

	updated := expectContact("PUT", path, []byte(`{
		"firstName": "Erika",
		"lastName": "Gabler",
		"company": "Musterfirma GmbH"
	}`), http.StatusOK)
	fmt.Printf("updated contact, last name now %q\n", updated.LastName)

	expectStatus("POST", "/api/contacts", []byte(`{
		"firstName": "Jane",
		"lastName": "Smith",
		"email": "bad"
	}`), http.StatusBadRequest)
	fmt.Println("invalid email rejected")

	expectStatus("DELETE", path, nil, http.StatusNoContent)
	fmt.Println("deleted contact")

	expectStatus("DELETE", path, nil, http.StatusNotFound)
	fmt.Println("second delete answered 404")
}

func expectContact(method, path string, body []byte, wantStatus int) Contact {
	resBody := expectStatus(method, path, body, wantStatus)
	var contact Contact
	if err := json.Unmarshal(resBody, &contact); err != nil {
		fmt.Println("could not unmarshal JSON", err)
		os.Exit(1)
	}
	return contact
}

func expectStatus(method, path string, body []byte, wantStatus int) []byte {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, baseURL()+path, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		os.Exit(1)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		os.Exit(1)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		os.Exit(1)
	}
	if res.StatusCode != wantStatus {
		fmt.Printf("%s %s: expected status %d, got %d: %s\n", method, path, wantStatus, res.StatusCode, resBody)
		os.Exit(1)
	}
	return resBody
}
