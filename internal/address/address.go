package address

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// DefaultHost is used when only the port is given.
const DefaultHost = "0.0.0.0"

type Address struct {
	Host string
	Port uint16
}

// Parse parses host:port pairs. The host may be omitted, the port may not. Port 0
// means any free one.
func Parse(addr string) (Address, error) {
	colon := strings.LastIndexByte(addr, ':')
	if colon == -1 {
		return Address{}, errors.New("no port given")
	}

	host, rawPort := addr[:colon], addr[colon+1:]
	port, err := strconv.ParseUint(rawPort, 10, 16)
	if err != nil {
		return Address{}, fmt.Errorf("invalid port: %s", rawPort)
	}

	if len(host) == 0 {
		host = DefaultHost
	}

	return Address{
		Host: strings.Trim(host, "[]"),
		Port: uint16(port),
	}, nil
}

func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(int(a.Port)))
}
