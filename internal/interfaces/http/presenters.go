package http

import (
	"github.com/jhoicas/lims-api/internal/application/dto"
	"github.com/jhoicas/lims-api/internal/application/traceability"
	"github.com/jhoicas/lims-api/internal/domain/entity"
)

func toAudit(a entity.Auditable) dto.AuditResponse {
	return dto.AuditResponse{
		Active:        a.Active,
		CreatedBy:     a.CreatedBy,
		CreatedAt:     a.CreatedAt,
		ModifiedBy:    a.ModifiedBy,
		ModifiedAt:    a.ModifiedAt,
		DeactivatedBy: a.DeactivatedBy,
		DeactivatedAt: a.DeactivatedAt,
	}
}

func toEquipment(e *entity.Equipment) dto.EquipmentResponse {
	return dto.EquipmentResponse{
		ID: e.ID, Code: e.Code, Name: e.Name, TypeID: e.TypeID, AreaID: e.AreaID,
		StateID: e.StateID, Audit: toAudit(e.Auditable),
	}
}

func toCalibration(c *entity.Calibration) dto.CalibrationResponse {
	return dto.CalibrationResponse{
		ID: c.ID, EquipmentID: c.EquipmentID, Type: c.Type, Date: c.Date,
		Expires: c.Expires, OperatorID: c.OperatorID,
	}
}

func toHistory(list []*entity.HistoryRecord) []dto.HistoryResponse {
	out := make([]dto.HistoryResponse, 0, len(list))
	for _, h := range list {
		out = append(out, dto.HistoryResponse{
			ID: h.ID, StateID: h.StateID, ActorID: h.ActorID, Date: h.Date, Observation: h.Observation,
		})
	}
	return out
}

func toHistoryViews(list []traceability.HistoryView) []dto.HistoryResponse {
	out := make([]dto.HistoryResponse, 0, len(list))
	for _, v := range list {
		h := v.Record
		out = append(out, dto.HistoryResponse{
			ID: h.ID, StateID: h.StateID, StateName: v.StateName, ActorID: h.ActorID,
			Date: h.Date, Observation: h.Observation,
		})
	}
	return out
}

func toOrder(o *entity.ManufacturingOrder) dto.OrderResponse {
	return dto.OrderResponse{
		ID: o.ID, Code: o.Code, Lot: o.Lot, Date: o.Date, ProductID: o.ProductID,
		Quantity: o.Quantity, Unit: o.Unit, OperatorID: o.OperatorID,
	}
}

func toProcess(p *entity.ManufacturingProcess, stateName string) dto.ProcessResponse {
	return dto.ProcessResponse{
		ID: p.ID, OrderID: p.OrderID, StartedAt: p.StartedAt, FinishedAt: p.FinishedAt,
		StateID: p.StateID, StateName: stateName, Observation: p.Observation,
	}
}

func toTraceability(r *traceability.OrderReport) dto.TraceabilityResponse {
	out := dto.TraceabilityResponse{
		Order:       toOrder(r.Order),
		Processes:   make([]dto.ProcessTraceResponse, 0, len(r.Processes)),
		GeneratedAt: r.GeneratedAt,
	}
	for _, p := range r.Processes {
		out.Processes = append(out.Processes, dto.ProcessTraceResponse{
			ProcessResponse: toProcess(p.Process, p.StateName),
			History:         toHistoryViews(p.History),
		})
	}
	return out
}

func toSamplingRequest(r *entity.SamplingRequest) dto.SamplingRequestResponse {
	return dto.SamplingRequestResponse{
		ID: r.ID, RequestedBy: r.RequestedBy, Date: r.Date, Type: r.Type, OrderID: r.OrderID,
		EquipmentID: r.EquipmentID, SamplingPointID: r.SamplingPointID, OperatorID: r.OperatorID,
		StateID: r.StateID, Observation: r.Observation,
	}
}

func toSession(s *entity.SamplingSession) dto.SessionResponse {
	out := dto.SessionResponse{
		ID: s.ID, RequestID: s.RequestID, StartedAt: s.StartedAt, FinishedAt: s.FinishedAt,
		OperatorID: s.OperatorID, Samples: make([]dto.SampleResponse, 0, len(s.Samples)),
	}
	for _, m := range s.Samples {
		out.Samples = append(out.Samples, dto.SampleResponse{
			ID: m.ID, SessionID: m.SessionID, SamplingPointID: m.SamplingPointID,
			EquipmentZoneID: m.EquipmentZoneID, SampledOperator: m.SampledOperator,
			Type: m.Type, Label: m.Label, Observation: m.Observation,
		})
	}
	return out
}

func toShipment(s *entity.SampleShipment) dto.ShipmentResponse {
	return dto.ShipmentResponse{ID: s.ID, SampleID: s.SampleID, Date: s.Date, OperatorID: s.OperatorID, Destination: s.Destination}
}

func toReception(r *entity.SampleReception) dto.ReceptionResponse {
	return dto.ReceptionResponse{
		ID: r.ID, ShipmentID: r.ShipmentID, Date: r.Date, OperatorID: r.OperatorID,
		ReceivedAt: r.ReceivedAt, Decision: r.Decision, Observation: r.Observation,
	}
}

func toAnalysis(a *entity.Analysis) dto.AnalysisResponse {
	return dto.AnalysisResponse{
		ID: a.ID, SampleID: a.SampleID, ReceptionID: a.ReceptionID, MethodVersionID: a.MethodVersionID,
		SpecificationID: a.SpecificationID, StateID: a.StateID, StartedAt: a.StartedAt,
		LastChange: a.LastChange, OperatorID: a.OperatorID,
	}
}

func toIncubation(i *entity.Incubation) dto.IncubationResponse {
	return dto.IncubationResponse{
		ID: i.ID, AnalysisID: i.AnalysisID, EquipmentID: i.EquipmentID, In: i.In, Out: i.Out,
		Temperature: i.Temperature, TempUnit: i.TempUnit,
	}
}

func toResult(r *entity.AnalysisResult) dto.ResultResponse {
	return dto.ResultResponse{
		ID: r.ID, AnalysisID: r.AnalysisID, ReportedAt: r.ReportedAt, OperatorID: r.OperatorID,
		Value: r.Value, NumericValue: r.NumericValue, Unit: r.Unit, Conforms: r.Conforms,
		Observation: r.Observation,
	}
}

func toApproval(a *entity.MediaApproval) dto.ApprovalResponse {
	return dto.ApprovalResponse{
		ID: a.ID, BatchID: a.BatchID, QCStateID: a.QCStateID, Date: a.Date,
		OperatorID: a.OperatorID, Observation: a.Observation,
	}
}
