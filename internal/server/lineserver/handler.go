package lineserver

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/yndnr/distkv-go/internal/core/domain"
	"github.com/yndnr/distkv-go/internal/protocol"
	"github.com/yndnr/distkv-go/internal/telemetry/logger"
)

// serveConn runs the request loop for one connection until the peer
// closes, an I/O error occurs, or a response asks to close.
func (s *Server) serveConn(ctx context.Context, c *Conn) {
	defer c.Close()

	remote := ""
	if addr := c.RemoteAddr(); addr != nil {
		remote = addr.String()
	}
	ctx = logger.WithLogger(ctx, logger.FromSlog(s.logger))
	ctx = logger.WithConnID(ctx, c.id)
	ctx = logger.WithRemote(ctx, remote)
	log := s.logger.With("conn_id", c.id, "remote", remote)

	log.Debug("connection opened")
	defer log.Debug("connection closed")

	for {
		line, err := s.readLine(c)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF), c.closed.Load():
			case errors.Is(err, ErrLineTooLong):
				log.Warn("protocol limit exceeded", "error", err)
				_ = s.respond(c, domain.Failure(domain.ErrLineTooLong))
			case isTimeout(err):
				log.Debug("connection timed out")
			default:
				s.metrics.ConnError("read")
				log.Debug("connection read error", "error", err)
			}
			return
		}

		cmd := protocol.Decode(line)
		if cmd.IsEmpty() {
			continue
		}

		var resp domain.Response
		if !s.limiter.allow(c.clientIP()) {
			resp = domain.Failure(domain.ErrRateLimited)
		} else {
			resp = s.exec.Execute(ctx, cmd)
		}

		if err := s.respond(c, resp); err != nil {
			if !c.closed.Load() {
				s.metrics.ConnError("write")
				log.Debug("connection write error", "error", err)
			}
			return
		}
		if resp.Closes() {
			return
		}
	}
}

// readLine waits for the next line. While no byte has arrived the idle
// timeout applies; once one has, the rest of the line must arrive within
// the read timeout.
func (s *Server) readLine(c *Conn) (string, error) {
	var idle time.Time
	if s.cfg.IdleTimeout > 0 {
		idle = time.Now().Add(s.cfg.IdleTimeout)
	}
	if err := c.netConn.SetReadDeadline(idle); err != nil {
		return "", err
	}
	if _, err := c.br.Peek(1); err != nil {
		return "", err
	}

	if s.cfg.ReadTimeout > 0 {
		if err := c.netConn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
			return "", err
		}
	}
	return protocol.ReadLine(c.br, s.cfg.MaxLineBytes)
}

// respond writes and flushes one response. Blank-line responses write nothing.
func (s *Server) respond(c *Conn, resp domain.Response) error {
	if resp.Kind == domain.KindNone {
		return nil
	}
	if s.cfg.WriteTimeout > 0 {
		if err := c.netConn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
			return err
		}
	}
	if err := protocol.WriteResponse(c.bw, resp); err != nil {
		return err
	}
	return c.bw.Flush()
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
