package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/tsc-sim/tsc-sim/loader"
	"github.com/tsc-sim/tsc-sim/service"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionCreateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.sessions.CreateSession(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create session: %v", err))
		return
	}

	writeJSON(w, http.StatusCreated, SessionCreateResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids := s.sessions.ListSessions()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": ids,
		"count":    len(ids),
	})
}

func (s *Server) handleGetSessionStatus(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	regs := session.Service.Registers()
	state := session.Service.State()

	writeJSON(w, http.StatusOK, SessionStatusResponse{
		SessionID: sessionID,
		State:     string(state),
		PC:        regs.PC,
		Cycle:     regs.Cycle,
	})
}

func (s *Server) handleDestroySession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.sessions.DestroySession(sessionID); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "session destroyed"})
}

// handleLoadImage handles POST /api/v1/session/{id}/load — loads an ELF or
// raw-hex program image into the session's machine (spec.md §6).
func (s *Server) handleLoadImage(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req LoadImageRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var img loader.Image
	if req.Hex {
		img = loader.LoadHex(req.Image)
	} else {
		img, err = loader.LoadELF(req.Image, loader.MemoryLayout{})
		if err != nil {
			writeJSON(w, http.StatusBadRequest, LoadImageResponse{Success: false, Error: err.Error()})
			return
		}
	}

	machine := session.Service.Machine()
	if err := img.Apply(machine); err != nil {
		writeJSON(w, http.StatusBadRequest, LoadImageResponse{Success: false, Error: err.Error()})
		return
	}
	machine.PC = img.EntryPoint

	writeJSON(w, http.StatusOK, LoadImageResponse{Success: true, EntryPoint: uint16(img.EntryPoint)})
}

// handleStep handles POST /api/v1/session/{id}/step.
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	session.Service.Step()
	regs := session.Service.Registers()
	s.broadcastStateChange(sessionID, &regs, session.Service.State())

	writeJSON(w, http.StatusOK, RegistersResponse{Registers: regs.Registers, PC: regs.PC, Cycle: regs.Cycle})
}

// handleRun handles POST /api/v1/session/{id}/run — runs asynchronously
// until a breakpoint or terminal status; clients poll GET .../{id} or listen
// on the WebSocket for the resulting state change.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	const defaultMaxCycles = 10_000_000
	go func() {
		session.Service.Continue(context.Background(), defaultMaxCycles)
		regs := session.Service.Registers()
		s.broadcastStateChange(sessionID, &regs, session.Service.State())
	}()

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "run started"})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	session.Service.Reset(0)
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "machine reset"})
}

func (s *Server) handleGetRegisters(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	regs := session.Service.Registers()
	writeJSON(w, http.StatusOK, RegistersResponse{Registers: regs.Registers, PC: regs.PC, Cycle: regs.Cycle})
}

func (s *Server) handleGetMemory(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	query := r.URL.Query()
	address, err := parseHexOrDec(query.Get("address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid address parameter")
		return
	}
	count, err := strconv.Atoi(query.Get("count"))
	if err != nil || count <= 0 {
		count = 16
	}
	const maxCount = 4096
	if count > maxCount {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("count too large (max %d)", maxCount))
		return
	}

	machine := session.Service.Machine()
	mem := machine.IMem
	if query.Get("dmem") == "true" {
		mem = machine.DMem
	}

	words, err := session.Service.Memory(mem, uint16(address), count) // #nosec G115 -- parseHexOrDec validates 16-bit range
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read memory: %v", err))
		return
	}

	resp := MemoryResponse{Words: make([]MemoryWordJSON, len(words))}
	for i, w2 := range words {
		resp.Words[i] = MemoryWordJSON{Address: w2.Address, Value: w2.Value}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBreakpoint(w http.ResponseWriter, r *http.Request, sessionID string) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	var req BreakpointRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch r.Method {
	case http.MethodPost:
		session.Service.AddBreakpoint(req.Address)
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "breakpoint added"})
	case http.MethodDelete:
		session.Service.RemoveBreakpoint(req.Address)
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "breakpoint removed"})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListBreakpoints(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, http.StatusOK, BreakpointsResponse{Breakpoints: session.Service.Breakpoints()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	stats := session.Service.Stats()
	writeJSON(w, http.StatusOK, StatsResponse{
		Cycle:    stats.Cycle,
		ICount:   stats.ICount,
		InstALU:  stats.InstALU,
		InstMem:  stats.InstMem,
		InstCtrl: stats.InstCtrl,
	})
}

// parseHexOrDec parses s as hexadecimal (0x prefix) or decimal.
func parseHexOrDec(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}
	if len(s) > 2 && s[:2] == "0x" {
		return strconv.ParseUint(s[2:], 16, 16)
	}
	return strconv.ParseUint(s, 10, 16)
}

// broadcastStateChange broadcasts a state change to WebSocket clients.
func (s *Server) broadcastStateChange(sessionID string, regs *service.RegisterState, state service.ExecutionState) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastState(sessionID, map[string]interface{}{
		"status":    string(state),
		"pc":        regs.PC,
		"cycle":     regs.Cycle,
		"registers": regs.Registers,
	})
}
