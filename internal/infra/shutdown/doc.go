// Package shutdown provides graceful shutdown for DistKV.
//
// A Handler waits for SIGINT/SIGTERM or an explicit Trigger, then runs the
// registered hooks in reverse order of registration under one shared
// timeout:
//
//	h := shutdown.NewHandler(10*time.Second, logger)
//	h.OnShutdown("line server", srv.Shutdown)
//	err := h.Wait()
package shutdown
