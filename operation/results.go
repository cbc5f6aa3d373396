package operation

import "time"

type ComplexRead1Result struct {
	OtherID         int64  `json:"otherId"`
	AccountDistance int    `json:"accountDistance"`
	MediumID        int64  `json:"mediumId"`
	MediumType      string `json:"mediumType"`
}

type ComplexRead2Result struct {
	OtherID        int64   `json:"otherId"`
	SumLoanAmount  float64 `json:"sumLoanAmount"`
	SumLoanBalance float64 `json:"sumLoanBalance"`
}

// ShortestPathLength is -1 when the accounts are not connected.
type ComplexRead3Result struct {
	ShortestPathLength int `json:"shortestPathLength"`
}

type ComplexRead4Result struct {
	OtherID        int64   `json:"otherId"`
	NumEdge2       int     `json:"numEdge2"`
	SumEdge2Amount float64 `json:"sumEdge2Amount"`
	MaxEdge2Amount float64 `json:"maxEdge2Amount"`
	NumEdge3       int     `json:"numEdge3"`
	SumEdge3Amount float64 `json:"sumEdge3Amount"`
	MaxEdge3Amount float64 `json:"maxEdge3Amount"`
}

type ComplexRead5Result struct {
	Path []int64 `json:"path"`
}

type ComplexRead6Result struct {
	MidID          int64   `json:"midId"`
	SumEdge1Amount float64 `json:"sumEdge1Amount"`
	SumEdge2Amount float64 `json:"sumEdge2Amount"`
}

type ComplexRead7Result struct {
	NumSrc     int     `json:"numSrc"`
	NumDst     int     `json:"numDst"`
	InOutRatio float64 `json:"inOutRatio"`
}

type ComplexRead8Result struct {
	DstID               int64   `json:"dstId"`
	Ratio               float64 `json:"ratio"`
	MinDistanceFromLoan int     `json:"minDistanceFromLoan"`
}

type ComplexRead9Result struct {
	RatioRepay    float64 `json:"ratioRepay"`
	RatioDeposit  float64 `json:"ratioDeposit"`
	RatioTransfer float64 `json:"ratioTransfer"`
}

type ComplexRead10Result struct {
	JaccardSimilarity float64 `json:"jaccardSimilarity"`
}

type ComplexRead11Result struct {
	SumLoanAmount float64 `json:"sumLoanAmount"`
	NumLoans      int     `json:"numLoans"`
}

type ComplexRead12Result struct {
	CompAccountID  int64   `json:"compAccountId"`
	SumEdge2Amount float64 `json:"sumEdge2Amount"`
}

type SimpleRead1Result struct {
	CreateTime  time.Time `json:"createTime"`
	IsBlocked   bool      `json:"isBlocked"`
	AccountType string    `json:"accountType"`
}

type SimpleRead2Result struct {
	SumEdge1Amount float64 `json:"sumEdge1Amount"`
	MaxEdge1Amount float64 `json:"maxEdge1Amount"`
	NumEdge1       int     `json:"numEdge1"`
	SumEdge2Amount float64 `json:"sumEdge2Amount"`
	MaxEdge2Amount float64 `json:"maxEdge2Amount"`
	NumEdge2       int     `json:"numEdge2"`
}

type SimpleRead3Result struct {
	BlockRatio float64 `json:"blockRatio"`
}

type SimpleRead4Result struct {
	DstID     int64   `json:"dstId"`
	NumEdges  int     `json:"numEdges"`
	SumAmount float64 `json:"sumAmount"`
}

type SimpleRead5Result struct {
	SrcID     int64   `json:"srcId"`
	NumEdges  int     `json:"numEdges"`
	SumAmount float64 `json:"sumAmount"`
}

type SimpleRead6Result struct {
	DstID int64 `json:"dstId"`
}
