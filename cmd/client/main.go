package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gitlab.com/dirk.krummacker/registration-form/pkg/model"
)

const serverPort = 8080

var firstNames = []string{"Aziz", "Dilnoza", "Rustam", "Malika", "Sardor", "Nodira"}

// Usage example on the command line:
// > go run main.go -admin=12345
//
// The admin password is only needed for the export and delete columns; without it they stay empty.
func main() {
	adminPtr := flag.String("admin", "", "the admin password")
	flag.Parse()

	fmt.Println()
	fmt.Println("  Elements      POST      LIST    EXPORT")
	fmt.Println("-----------------------------------------")
	sizes := []int{100, 500, 1000, 5000}
	for _, loops := range sizes {
		fmt.Printf("%10d", loops)
		{
			// form submissions
			var duration int64
			for i := 0; i < loops; i++ {
				duration += sendForm("/records", randomSubmission().Values(), nil)
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		{
			// listing pages
			var duration int64
			for i := 0; i < loops; i++ {
				page := rand.Intn(loops/10+1) + 1
				_, d := sendRequest(http.MethodGet, fmt.Sprintf("/?page=%d", page), nil, nil)
				duration += d
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		if *adminPtr != "" {
			cookies := login(*adminPtr)
			_, d := sendRequest(http.MethodGet, "/admin/export.xlsx", nil, cookies)
			fmt.Printf("%10d", d/1000)
			sendForm("/admin/delete-all", nil, cookies)
		}
		fmt.Println()
	}
}

func randomSubmission() model.Submission {
	birth := time.Date(1950+rand.Intn(60), time.Month(rand.Intn(12)+1), rand.Intn(28)+1, 0, 0, 0, 0, time.UTC)
	return model.Submission{
		FirstName:   firstNames[rand.Intn(len(firstNames))],
		LastName:    "Karimov",
		BirthDate:   birth.Format("2006-01-02"),
		PhoneNumber: fmt.Sprintf("99890%07d", rand.Intn(10000000)),
		Address:     "Navoi 12",
		City:        "Tashkent",
	}
}

func login(password string) []*http.Cookie {
	res := post("/admin", map[string]string{"password": password}, nil)
	return res.Cookies()
}

func sendForm(path string, fields map[string]string, cookies []*http.Cookie) int64 {
	before := time.Now().UnixNano()
	post(path, fields, cookies)
	return time.Now().UnixNano() - before
}

func post(path string, fields map[string]string, cookies []*http.Cookie) *http.Response {
	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	req, err := http.NewRequest(http.MethodPost, requestURL(path), strings.NewReader(values.Encode()))
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	// Redirects are not followed so the session cookie of the response stays visible.
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	res, err := client.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	io.Copy(io.Discard, res.Body)
	res.Body.Close()
	return res
}

func requestURL(path string) string {
	return fmt.Sprintf("http://localhost:%d%s", serverPort, path)
}

func sendRequest(method string, path string, bodyReader io.Reader, cookies []*http.Cookie) ([]byte, int64) {
	req, err := http.NewRequest(method, requestURL(path), bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	before := time.Now().UnixNano()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	res.Body.Close()
	after := time.Now().UnixNano()
	return resBody, after - before
}
