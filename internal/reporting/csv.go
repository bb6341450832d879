package reporting

import (
	"fmt"
	"strings"

	"solana-copytrade-lab/internal/domain"
)

// RenderTradesCSV renders matched trades as a CSV string.
func RenderTradesCSV(trades []*domain.MatchedTrade) string {
	var sb strings.Builder

	// Header
	sb.WriteString("trade_id,token,mint,base_currency,buy_time,sell_time,hold_days,")
	sb.WriteString("buy_amount,sell_amount,matched_amount,cost,proceeds,profit,pnl_pct,is_partial,")
	sb.WriteString("buy_signature,sell_signature,buy_slot,sell_slot\n")

	// Rows
	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%d,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.4f,%t,%s,%s,%d,%d\n",
			t.TradeID,
			t.DisplaySymbol(),
			t.Mint,
			t.BaseCurrency,
			t.BuyTime,
			t.SellTime,
			t.HoldDays(),
			t.BuyAmount,
			t.SellAmount,
			t.MatchedAmount,
			t.Cost,
			t.Proceeds,
			t.Profit,
			t.PnlPct,
			t.IsPartial,
			t.BuySignature,
			t.SellSignature,
			t.BuySlot,
			t.SellSlot,
		))
	}

	return sb.String()
}

// RenderLatencyCSV renders latency records as a CSV string.
func RenderLatencyCSV(records []*domain.LatencyRecord) string {
	var sb strings.Builder

	// Header
	sb.WriteString("record_id,token,mint,target_wallet,copy_wallet,target_slot,copy_slot,slot_latency,")
	sb.WriteString("target_time,copy_time,time_latency_seconds,target_signature,copy_signature\n")

	// Rows
	for _, r := range records {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%d,%d,%d,%d,%d,%.3f,%s,%s\n",
			r.RecordID,
			r.DisplaySymbol(),
			r.Mint,
			r.TargetWallet,
			r.CopyWallet,
			r.TargetSlot,
			r.CopySlot,
			r.SlotLatency,
			r.TargetTime,
			r.CopyTime,
			r.TimeLatencySeconds,
			r.TargetSignature,
			r.CopySignature,
		))
	}

	return sb.String()
}
