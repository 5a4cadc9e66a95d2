package vantage

import (
	"fmt"
	"regexp"
	"strconv"

	"routeanalyzer/internal/model"
)

// pingDestRe matches the banner line: "PING host (1.2.3.4) 56(84) bytes of data."
var pingDestRe = regexp.MustCompile(`^PING\s+\S+\s+\(([0-9A-Fa-f:.]+)\)`)

// pingStatsRe matches the transmit/receive summary line, e.g.
// "5 packets transmitted, 5 received, 0% packet loss, time 4005ms".
var pingStatsRe = regexp.MustCompile(`(\d+)\s+packets transmitted,\s+(\d+)\s+received`)

// pingRTTRe matches the rtt line, e.g.
// "rtt min/avg/max/mdev = 20.123/21.456/23.789/1.234 ms".
var pingRTTRe = regexp.MustCompile(`[rm]tt\s+min/avg/max/(?:mdev|stddev)\s+=\s+([\d.]+)/([\d.]+)/([\d.]+)/([\d.]+)\s+ms`)

// parsePingSummary parses the stdout of `ping -c{count} -q {host}` into a
// Measurement. There is no Go library in this corpus equivalent to a
// dedicated command-output parser, so the summary is matched directly
// against the standard library's regexp package.
func parsePingSummary(output string) (*model.Measurement, error) {
	destMatch := pingDestRe.FindStringSubmatch(output)
	statsMatch := pingStatsRe.FindStringSubmatch(output)
	if destMatch == nil || statsMatch == nil {
		return nil, fmt.Errorf("%w: output did not match ping summary shape", ErrParse)
	}

	transmitted, err := strconv.Atoi(statsMatch[1])
	if err != nil {
		return nil, fmt.Errorf("%w: packets transmitted: %v", ErrParse, err)
	}
	received, err := strconv.Atoi(statsMatch[2])
	if err != nil {
		return nil, fmt.Errorf("%w: packets received: %v", ErrParse, err)
	}

	m := model.NewMeasurement(destMatch[1], transmitted, received)
	if received == 0 {
		return m, nil
	}

	if rttMatch := pingRTTRe.FindStringSubmatch(output); rttMatch != nil {
		m.RTTMin, _ = strconv.ParseFloat(rttMatch[1], 64)
		m.RTTAvg, _ = strconv.ParseFloat(rttMatch[2], 64)
		m.RTTMax, _ = strconv.ParseFloat(rttMatch[3], 64)
		m.RTTStddev, _ = strconv.ParseFloat(rttMatch[4], 64)
	}

	return m, nil
}
