package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"sync"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const activateMessage = "activate"

// InstanceGuard holds the single-instance lock. A second launch asks the
// holder to bring its window forward instead of starting another timer.
type InstanceGuard struct {
	listener   net.Listener
	address    string
	onActivate func()
	wg         sync.WaitGroup
}

// AcquireSingleInstance binds a deterministic loopback port derived from
// appName. onActivate runs whenever another launch signals this instance.
func AcquireSingleInstance(appName string, onActivate func()) (*InstanceGuard, error) {
	address := instanceAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, ErrAlreadyRunning
	}
	guard := &InstanceGuard{listener: listener, address: address, onActivate: onActivate}
	guard.wg.Add(1)
	go guard.serve()
	return guard, nil
}

// SignalRunningInstance asks the instance holding the lock to activate.
func SignalRunningInstance(appName string) error {
	conn, err := net.DialTimeout("tcp", instanceAddress(appName), time.Second)
	if err != nil {
		return fmt.Errorf("signal instance: %w", err)
	}
	defer conn.Close()
	_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
	if _, err := fmt.Fprintln(conn, activateMessage); err != nil {
		return fmt.Errorf("signal instance: %w", err)
	}
	return nil
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	err := guard.listener.Close()
	guard.wg.Wait()
	return err
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func (guard *InstanceGuard) serve() {
	defer guard.wg.Done()
	for {
		conn, err := guard.listener.Accept()
		if err != nil {
			return
		}
		guard.handle(conn)
	}
}

func (guard *InstanceGuard) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil && line == "" {
		return
	}
	if strings.TrimSpace(line) == activateMessage && guard.onActivate != nil {
		guard.onActivate()
	}
}

func instanceAddress(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
