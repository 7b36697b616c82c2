package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// LogStats summarizes one day of log files
type LogStats struct {
	Date              string
	TotalErrors       int
	SignInSuccess     int
	SignInFailures    int
	OrdersPlaced      int
	OrdersPaid        int
	PaymentErrors     int
	WebhookRejections int
	SlowRequests      int
	UserActivities    map[string]int
	ErrorPatterns     map[string]int
}

var (
	logEmailRegex    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	logDurationRegex = regexp.MustCompile(`Duration: (\S+)$`)
	logPrefixRegex   = regexp.MustCompile(`^\w+: \d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} \S+: `)
)

// SlowRequestThreshold marks requests worth flagging in the report
const SlowRequestThreshold = time.Second

// AnalyzeLogs reads the info and error files of date under dir
func AnalyzeLogs(dir string, date time.Time) (*LogStats, error) {
	day := date.Format("2006-01-02")
	stats := &LogStats{
		Date:           day,
		UserActivities: make(map[string]int),
		ErrorPatterns:  make(map[string]int),
	}

	if err := scanLogFile(filepath.Join(dir, fmt.Sprintf("error-%s.log", day)), stats.addErrorLine); err != nil {
		return nil, err
	}
	if err := scanLogFile(filepath.Join(dir, fmt.Sprintf("info-%s.log", day)), stats.addInfoLine); err != nil {
		return nil, err
	}
	return stats, nil
}

func scanLogFile(path string, fn func(string)) error {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error opening log file %s: %v", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	return scanner.Err()
}

func (s *LogStats) addErrorLine(line string) {
	// continuation lines of stack traces carry no prefix
	if !logPrefixRegex.MatchString(line) {
		return
	}
	s.TotalErrors++

	switch {
	case strings.Contains(line, "Sign in failed"):
		s.SignInFailures++
		s.addUserActivity(line)
	case strings.Contains(line, "Payment provider error"):
		s.PaymentErrors++
	case strings.Contains(line, "webhook rejected"):
		s.WebhookRejections++
	}

	msg := logPrefixRegex.ReplaceAllString(line, "")
	if i := strings.Index(msg, ":"); i > 0 {
		msg = msg[:i]
	}
	s.ErrorPatterns[strings.TrimSpace(msg)]++
}

func (s *LogStats) addInfoLine(line string) {
	switch {
	case strings.Contains(line, "User signed in successfully"):
		s.SignInSuccess++
		s.addUserActivity(line)
	case strings.Contains(line, "Order placed successfully"):
		s.OrdersPlaced++
	case strings.Contains(line, "Order marked as paid"):
		s.OrdersPaid++
	case strings.Contains(line, "Request: "):
		if m := logDurationRegex.FindStringSubmatch(line); m != nil {
			if d, err := time.ParseDuration(m[1]); err == nil && d >= SlowRequestThreshold {
				s.SlowRequests++
			}
		}
	}
}

func (s *LogStats) addUserActivity(line string) {
	if email := logEmailRegex.FindString(line); email != "" {
		s.UserActivities[email]++
	}
}

// WriteReport prints the summary in plain text
func (s *LogStats) WriteReport(w io.Writer) {
	fmt.Fprintln(w, "=== Log Analysis Report ===")
	fmt.Fprintln(w, "Date:", s.Date)
	fmt.Fprintln(w, "\n1. Authentication:")
	fmt.Fprintf(w, "   Successful sign ins: %d\n", s.SignInSuccess)
	fmt.Fprintf(w, "   Failed sign ins: %d\n", s.SignInFailures)
	fmt.Fprintln(w, "\n2. Orders:")
	fmt.Fprintf(w, "   Placed: %d\n", s.OrdersPlaced)
	fmt.Fprintf(w, "   Paid: %d\n", s.OrdersPaid)
	fmt.Fprintf(w, "   Payment provider errors: %d\n", s.PaymentErrors)
	fmt.Fprintf(w, "   Rejected webhooks: %d\n", s.WebhookRejections)
	fmt.Fprintln(w, "\n3. Errors:")
	fmt.Fprintf(w, "   Total errors: %d\n", s.TotalErrors)
	fmt.Fprintf(w, "   Slow requests: %d\n", s.SlowRequests)
	fmt.Fprintln(w, "\n4. Most active users:")
	for _, e := range topCounts(s.UserActivities, 5) {
		fmt.Fprintf(w, "   %s: %d\n", e.key, e.count)
	}
	fmt.Fprintln(w, "\n5. Most common errors:")
	for _, e := range topCounts(s.ErrorPatterns, 5) {
		fmt.Fprintf(w, "   %s: %d\n", e.key, e.count)
	}
}

type keyCount struct {
	key   string
	count int
}

func topCounts(m map[string]int, limit int) []keyCount {
	list := make([]keyCount, 0, len(m))
	for k, n := range m {
		list = append(list, keyCount{k, n})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count == list[j].count {
			return list[i].key < list[j].key
		}
		return list[i].count > list[j].count
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}
