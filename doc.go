// Package movierec 是一个混合式电影推荐引擎（Hybrid Movie Recommender）。
//
// 设计要点：
//   - 双信号源：协同过滤（implicit ALS 矩阵分解）+ 内容相似（嵌入向量近邻检索），
//     由 rank.Hybrid 按 alpha 线性融合为一个排序
//   - Pipeline-first: 打分逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
//   - 快照式模型管理：ALS 模型 / 嵌入矩阵 / 近邻索引 / 影片目录打包为只读
//     Snapshot，一次构建、共享读取，重载时整体原子替换
//   - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 策略驱动
package movierec

import "github.com/rushteam/movierec/pipeline"

// 轻量 facade：便于用户直接 import "movierec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)
